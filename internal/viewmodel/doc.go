// Package viewmodel drives an observable store from image downloads.
//
// Only one download runs at a time: DownloadImage and StartDownload reject a
// call made while another download is in flight with ErrDownloadInFlight and
// leave the store untouched, so every accepted call produces exactly one
// busy=true ... busy=false bracket around its result.
package viewmodel
