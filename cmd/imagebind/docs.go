package main

//go:generate swag init -d ./,../../internal/httpapi,../../pkg/types -g docs.go -o ../../docs --outputTypes go

// General API documentation for swaggo. The generated package lives in /docs.
//
// @title           imagebind API
// @version         1.0
// @description     HTTP API for downloading an image into an observable view model.
//
// @contact.name   imagebind maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
