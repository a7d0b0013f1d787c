// Package platform contains OS integration helpers: default directories,
// folder reveal in the system file manager, and URL-to-filename mapping.
package platform
