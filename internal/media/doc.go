// Package media stores generated meme images and serves their public URLs.
//
// Two backends implement the Storage interface: LocalStorage writes to a
// directory on disk and is the default for development, S3Storage uploads to
// an S3-compatible bucket for production. The backend is selected through
// configuration; callers only ever see the Storage interface.
package media
