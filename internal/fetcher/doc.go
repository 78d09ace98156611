// Package fetcher downloads a single image over HTTP.
//
// A fetch is one GET with no retries. Failures are reported as *Error with one
// of three kinds: the URL did not parse, the server did not answer 200, or the
// body was not an image any registered decoder understands. Besides the
// standard png, jpeg and gif decoders, bmp, tiff and webp are registered from
// golang.org/x/image.
package fetcher
