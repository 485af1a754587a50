// Package media stores uploaded images under a static directory tree:
// images/avatars for membre avatars (shrunk to fit a square bound) and
// images/autres for structure medias. Files get a random hexadecimal name
// that keeps the upload's extension.
package media
