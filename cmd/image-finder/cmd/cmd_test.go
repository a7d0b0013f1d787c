package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/image-finder/internal/model"
)

const gifPixel = "GIF89a\x01\x00\x01\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x00;"

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/":
			switch r.URL.Query().Get("page") {
			case "1":
				_, _ = w.Write([]byte(`{"hits":[` +
					`{"id":1,"webformatURL":"` + srv.URL + `/img/a.gif"},` +
					`{"id":2,"webformatURL":"` + srv.URL + `/img/b.gif"}]}`))
			case "2":
				_, _ = w.Write([]byte(`{"hits":[{"id":3,"webformatURL":"` + srv.URL + `/img/c.gif"}]}`))
			default:
				_, _ = w.Write([]byte(`{"hits":[]}`))
			}
		case "/img/a.gif", "/img/b.gif", "/img/c.gif":
			_, _ = w.Write([]byte(gifPixel))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, fs afero.Fs, clip clipboardWriter, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd(&rootOptions{fs: fs, clip: clip})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--credential", "/cred/pixabay.yaml"}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestSearch_ListsAccumulatedPages(t *testing.T) {
	srv := newTestServer(t)
	fs := afero.NewMemMapFs()

	out, err := execute(t, fs, &fakeClipboard{}, "--endpoint", srv.URL+"/api/", "search", "cat", "--pages", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "  1  "+srv.URL+"/img/a.gif")
	assert.Contains(t, out, "  2  "+srv.URL+"/img/b.gif")
	assert.Contains(t, out, "  3  "+srv.URL+"/img/c.gif")
	assert.NotContains(t, out, "Selected")
}

func TestSearch_PickDownloadAndCopy(t *testing.T) {
	srv := newTestServer(t)
	fs := afero.NewMemMapFs()
	clip := &fakeClipboard{}

	out, err := execute(t, fs, clip,
		"--endpoint", srv.URL+"/api/",
		"search", "cat", "--pages", "2", "--pick", "3,1", "--download", "/pics", "--copy")
	require.NoError(t, err)

	assert.Contains(t, out, "Selected 2 of 3")
	assert.Contains(t, out, "Copied 2 URL(s)")
	assert.Contains(t, out, "Saved 2 image(s) to /pics, 0 failed")
	assert.Equal(t, srv.URL+"/img/a.gif\n"+srv.URL+"/img/c.gif", clip.text)

	for _, name := range []string{"a.gif", "c.gif"} {
		exists, err := afero.Exists(fs, "/pics/"+name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}
	exists, err := afero.Exists(fs, "/pics/b.gif")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSearch_PickRepeatedURL(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/" {
			_, _ = w.Write([]byte(`{"hits":[{"id":1,"webformatURL":"` + srv.URL + `/img/a.gif"}]}`))
			return
		}
		_, _ = w.Write([]byte(gifPixel))
	}))
	defer srv.Close()
	clip := &fakeClipboard{}

	out, err := execute(t, afero.NewMemMapFs(), clip,
		"--endpoint", srv.URL+"/api/", "search", "cat", "--pages", "2", "--pick", "1,2", "--copy")
	require.NoError(t, err)

	assert.Contains(t, out, "  1  "+srv.URL+"/img/a.gif")
	assert.Contains(t, out, "  2  "+srv.URL+"/img/a.gif")
	assert.Contains(t, out, "Selected 1 of 2")
	assert.Equal(t, srv.URL+"/img/a.gif", clip.text)
}

func TestSearch_ClipboardFailure(t *testing.T) {
	srv := newTestServer(t)
	clip := &fakeClipboard{err: errors.New("no display")}

	_, err := execute(t, afero.NewMemMapFs(), clip, "--endpoint", srv.URL+"/api/", "search", "cat", "--all", "--copy")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrIO)
}

func TestSearch_CopyWithoutSelection(t *testing.T) {
	srv := newTestServer(t)

	_, err := execute(t, afero.NewMemMapFs(), &fakeClipboard{}, "--endpoint", srv.URL+"/api/", "search", "cat", "--copy")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSearch_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"total":0,"totalHits":0}`))
	}))
	defer srv.Close()

	out, err := execute(t, afero.NewMemMapFs(), &fakeClipboard{}, "--endpoint", srv.URL, "search", "qwertyuiop")
	require.NoError(t, err)
	assert.Contains(t, out, `No images found for "qwertyuiop"`)
}

func TestSearch_BadPages(t *testing.T) {
	_, err := execute(t, afero.NewMemMapFs(), &fakeClipboard{}, "search", "cat", "--pages", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestKey_SetAndShow(t *testing.T) {
	fs := afero.NewMemMapFs()

	out, err := execute(t, fs, nil, "key", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "(not set)")

	out, err = execute(t, fs, nil, "key", "set", "  abcd1234efgh5678  ")
	require.NoError(t, err)
	assert.Contains(t, out, "/cred/pixabay.yaml")

	out, err = execute(t, fs, nil, "key", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "abcd********5678")

	out, err = execute(t, fs, nil, "key", "show", "--reveal")
	require.NoError(t, err)
	assert.Contains(t, out, "abcd1234efgh5678")
}

func TestKey_ShowConfiguredKey(t *testing.T) {
	t.Setenv("IMAGEFINDER_API_KEY", "configured-key-1234")
	fs := afero.NewMemMapFs()

	out, err := execute(t, fs, nil, "key", "show", "--reveal")
	require.NoError(t, err)
	assert.Contains(t, out, "configured-key-1234")
	assert.Contains(t, out, "from: configuration")

	_, err = execute(t, fs, nil, "key", "set", "saved-key-5678")
	require.NoError(t, err)

	out, err = execute(t, fs, nil, "key", "show", "--reveal")
	require.NoError(t, err)
	assert.Contains(t, out, "saved-key-5678")
	assert.NotContains(t, out, "from: configuration")
}

func TestKey_SetEmpty(t *testing.T) {
	_, err := execute(t, afero.NewMemMapFs(), nil, "key", "set", "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), nil, "version")
	require.NoError(t, err)
	assert.Equal(t, "image-finder dev\n", out)
}

func TestParsePicks(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		n       int
		want    []int
		wantErr bool
	}{
		{name: "single", list: "2", n: 5, want: []int{2}},
		{name: "list is sorted and deduplicated", list: "3, 1,3", n: 5, want: []int{1, 3}},
		{name: "range", list: "2-4", n: 5, want: []int{2, 3, 4}},
		{name: "reversed range", list: "4-2", n: 5, want: []int{2, 3, 4}},
		{name: "mixed", list: "1,3-4,5", n: 5, want: []int{1, 3, 4, 5}},
		{name: "out of range", list: "6", n: 5, wantErr: true},
		{name: "zero", list: "0", n: 5, wantErr: true},
		{name: "not a number", list: "x", n: 5, wantErr: true},
		{name: "empty", list: " , ", n: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePicks(tt.list, tt.n)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
