// Package docs holds the Swagger document for the HTTP API. Regenerate with
// swag init -g cmd/pluginbuilder/docs.go -o internal/httpapi/docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "pluginbuilder maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "definitions": {
        "types.ActionResponse": {
            "properties": {
                "command": {
                    "example": "ninja -C build",
                    "type": "string"
                },
                "path": {
                    "type": "string"
                },
                "status": {
                    "example": "ok",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "types.CallbackRequest": {
            "properties": {
                "value": {
                    "example": "console",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "types.CreateRequest": {
            "properties": {
                "name": {
                    "example": "Foo",
                    "type": "string"
                },
                "template": {
                    "example": "BasicCHOP",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "types.ErrorResponse": {
            "properties": {
                "code": {
                    "example": 400,
                    "type": "integer"
                },
                "error": {
                    "example": "plugin name is empty",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "types.LoaderStatus": {
            "properties": {
                "generation": {
                    "example": 3,
                    "type": "integer"
                },
                "op_type": {
                    "example": "CHOP",
                    "type": "string"
                },
                "plugin_path": {
                    "example": "Plugins/Foo/Foo.dll",
                    "type": "string"
                },
                "unloaded": {
                    "type": "boolean"
                }
            },
            "type": "object"
        },
        "types.OpenRequest": {
            "properties": {
                "name": {
                    "example": "Foo",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "types.OutputLine": {
            "properties": {
                "seq": {
                    "example": 42,
                    "type": "integer"
                },
                "text": {
                    "type": "string"
                },
                "time_unix_ms": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "types.OutputResponse": {
            "properties": {
                "dropped": {
                    "example": 0,
                    "type": "integer"
                },
                "lines": {
                    "items": {
                        "$ref": "#/definitions/types.OutputLine"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "types.Project": {
            "properties": {
                "dir": {
                    "example": "PluginProjects/Foo",
                    "type": "string"
                },
                "name": {
                    "example": "Foo",
                    "type": "string"
                },
                "op_type": {
                    "example": "CHOP",
                    "type": "string"
                },
                "template": {
                    "example": "BasicCHOP",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "types.ProjectsResponse": {
            "properties": {
                "projects": {
                    "items": {
                        "$ref": "#/definitions/types.Project"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "types.SessionStatus": {
            "properties": {
                "dropped": {
                    "type": "integer"
                },
                "id": {
                    "type": "string"
                },
                "output_to": {
                    "example": "queue",
                    "type": "string"
                },
                "pid": {
                    "type": "integer"
                },
                "queue_cap": {
                    "type": "integer"
                },
                "queue_len": {
                    "type": "integer"
                },
                "started_at_unix": {
                    "type": "integer"
                },
                "state": {
                    "example": "running",
                    "type": "string"
                },
                "work_dir": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "types.StatusResponse": {
            "properties": {
                "artifact": {
                    "type": "string"
                },
                "artifact_exists": {
                    "type": "boolean"
                },
                "build_type": {
                    "example": "Release",
                    "type": "string"
                },
                "project": {
                    "$ref": "#/definitions/types.Project"
                },
                "server_time_unix": {
                    "type": "integer"
                },
                "session": {
                    "$ref": "#/definitions/types.SessionStatus"
                },
                "uptime_seconds": {
                    "example": 3600,
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "types.Template": {
            "properties": {
                "blocks": {
                    "example": "cuda",
                    "type": "string"
                },
                "name": {
                    "example": "CudaTOP",
                    "type": "string"
                },
                "op_type": {
                    "example": "TOP",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "types.TemplatesResponse": {
            "properties": {
                "templates": {
                    "items": {
                        "$ref": "#/definitions/types.Template"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        }
    },
    "paths": {
        "/callbacks/{event}": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "name_changed, source_changed, build_config_changed, artifact_changed or output_mode_changed",
                        "in": "path",
                        "name": "event",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "new value",
                        "in": "body",
                        "name": "body",
                        "schema": {
                            "$ref": "#/definitions/types.CallbackRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ActionResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Host watcher or parameter callback",
                "tags": [
                    "callbacks"
                ]
            }
        },
        "/clean": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ActionResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Send the ninja clean command",
                "tags": [
                    "build"
                ]
            }
        },
        "/compile": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ActionResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Send the ninja build command",
                "tags": [
                    "build"
                ]
            }
        },
        "/configure": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ActionResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Send the cmake configure command",
                "tags": [
                    "build"
                ]
            }
        },
        "/install": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ActionResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Install the plugin into the user plugin folder",
                "tags": [
                    "loader"
                ]
            }
        },
        "/loader": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.LoaderStatus"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Desired state of the host plugin loader",
                "tags": [
                    "loader"
                ]
            }
        },
        "/open": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "project",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/types.OpenRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.Project"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Select an existing project (empty name clears)",
                "tags": [
                    "projects"
                ]
            }
        },
        "/output": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.OutputResponse"
                        }
                    }
                },
                "summary": "Drain captured build output",
                "tags": [
                    "session"
                ]
            }
        },
        "/projects": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ProjectsResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "List plugin projects on disk",
                "tags": [
                    "projects"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "project",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/types.CreateRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.Project"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Create a plugin project, start its session, configure and compile",
                "tags": [
                    "projects"
                ]
            }
        },
        "/reload": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ActionResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Copy the built library and reload the plugin",
                "tags": [
                    "loader"
                ]
            }
        },
        "/session/close": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ActionResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Close the build shell",
                "tags": [
                    "session"
                ]
            }
        },
        "/session/start": {
            "post": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.ActionResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/types.ErrorResponse"
                        }
                    }
                },
                "summary": "Start or restart the build shell",
                "tags": [
                    "session"
                ]
            }
        },
        "/status": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.StatusResponse"
                        }
                    }
                },
                "summary": "Builder status",
                "tags": [
                    "builder"
                ]
            }
        },
        "/templates": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/types.TemplatesResponse"
                        }
                    }
                },
                "summary": "List project templates",
                "tags": [
                    "projects"
                ]
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "pluginbuilder API",
	Description:      "Local control API for scaffolding, building and reloading TouchDesigner plugins.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
