// Package docs registers the OpenAPI document served at /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {"name": "Booking Notifier"},
        "license": {"name": "MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "API root info",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}}
            }
        },
        "/health/db": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Database health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/api/v1/events": {
            "post": {
                "description": "Runs the notification handlers for a create or update of an order or service record. Events without event_id get one assigned. A repeated event_id is acknowledged without side effects.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["events"],
                "summary": "Submit a record change",
                "parameters": [
                    {"description": "Change envelope", "name": "change", "in": "body", "required": true, "schema": {"$ref": "#/definitions/events.Change"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/handler.EventAccepted"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/respond.ErrorResponse"}}
                }
            }
        },
        "/api/v1/reminders/scan": {
            "post": {
                "description": "Sends reminders for bookings due in the reminder window that have not been reminded yet.",
                "produces": ["application/json"],
                "tags": ["reminders"],
                "summary": "Run the booking reminder scan",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ScanResponse"}}}
            }
        }
    },
    "definitions": {
        "events.Change": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "collection": {"type": "string", "enum": ["orders", "service_records"]},
                "op": {"type": "string", "enum": ["create", "update"]},
                "id": {"type": "string"},
                "before": {"type": "object"},
                "after": {"type": "object"}
            }
        },
        "handler.EventAccepted": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "handled": {"type": "boolean"}
            }
        },
        "handler.ScanResponse": {
            "type": "object",
            "properties": {
                "found": {"type": "integer"},
                "reminded": {"type": "integer"},
                "skipped": {"type": "integer"},
                "unlinked": {"type": "integer"},
                "failed": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "string"}},
                "duration_ms": {"type": "integer"},
                "summary": {"type": "string"}
            }
        },
        "respond.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "detail": {"type": "string"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Booking Notifier API",
	Description:      "Decides and delivers push and in-app notifications for shop orders and workshop bookings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
