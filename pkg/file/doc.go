// Package file is the client facade for the file management endpoints of the
// panel service: listing uploaded files, deleting them, renaming them and
// asking the server to rebuild its file index from disk.
//
// The generic functions (GetList, Deletes, Rename, RefreshFiles) are thin
// wrappers that only choose the endpoint and payload; the reply is decoded
// into whatever type the caller names. The methods on API (List, Delete,
// Rename, Refresh) decode the service's envelope into the types in this
// package. Neither layer validates input; retries are left to the
// request.Transport the API was built with, except that Rename and Deletes
// ask it to send the request once.
package file
