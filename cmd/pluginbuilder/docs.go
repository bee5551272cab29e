package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/pluginbuilder/docs.go -o internal/httpapi/docs`.
//
// @title           pluginbuilder API
// @version         1.0
// @description     Local control API for scaffolding, building and hot-reloading TouchDesigner C++ plugins.
//
// @contact.name   pluginbuilder maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
