// Package upload publishes rendered decks to remote storage.
//
// Two targets are provided: Google Drive (service-account credentials,
// drive.file scope) and any S3-compatible store reached through minio-go
// (credentials in a dotenv file). A Manager dispatches requests by backend
// name; "auto" picks the first target that accepts the credentials file.
//
// Every upload reports a BLAKE3 checksum of the bytes sent so a caller can
// compare it with a later download.
package upload
