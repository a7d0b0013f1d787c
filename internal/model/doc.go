// Package model defines domain data structures used across the app: search
// queries, image items, download tasks and status enums, plus the error
// taxonomy shared by every layer.
package model
