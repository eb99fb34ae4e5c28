// Package docs holds the OpenAPI description served by gin-swagger.
// Regenerate with: swag init -g cmd/hub_backend/main.go -o cmd/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/catalog": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Get the status and category catalog",
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/{kind}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List records",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"type": "array", "items": {"type": "string"}, "name": "status", "in": "query"},
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "default": 50, "name": "limit", "in": "query"},
                    {"type": "string", "name": "nextToken", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Create a record",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"name": "record", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/{kind}/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Summarize records",
                "parameters": [{"$ref": "#/parameters/kind"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}
            }
        },
        "/{kind}/stream": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/event-stream"],
                "tags": ["records"],
                "summary": "Stream record changes",
                "parameters": [{"$ref": "#/parameters/kind"}],
                "responses": {"200": {"description": "event stream"}}
            }
        },
        "/{kind}/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["text/csv", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Import records from CSV",
                "parameters": [{"$ref": "#/parameters/kind"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ImportResponse"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/{kind}/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Get a record by ID",
                "parameters": [{"$ref": "#/parameters/kind"}, {"$ref": "#/parameters/id"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Update a record",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"$ref": "#/parameters/id"},
                    {"name": "record", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["records"],
                "summary": "Delete a record",
                "parameters": [{"$ref": "#/parameters/kind"}, {"$ref": "#/parameters/id"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/{kind}/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Change the status of a record",
                "parameters": [
                    {"$ref": "#/parameters/kind"},
                    {"$ref": "#/parameters/id"},
                    {"name": "status", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "parameters": {
        "kind": {"type": "string", "enum": ["expenses", "projects", "events", "tasks"], "name": "kind", "in": "path", "required": true},
        "id": {"type": "string", "name": "id", "in": "path", "required": true}
    },
    "definitions": {
        "dto.UpdateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {"status": {"type": "string"}}
        },
        "dto.ImportRowError": {
            "type": "object",
            "properties": {
                "line": {"type": "integer"},
                "field": {"type": "string"},
                "value": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "dto.ImportResponse": {
            "type": "object",
            "properties": {
                "created": {"type": "integer"},
                "ids": {"type": "array", "items": {"type": "string"}},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/dto.ImportRowError"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Community Hub API",
	Description:      "Record store for expenses, projects, events and tasks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
