package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Portal API",
        "description": "Student and guardian profile aggregation for the school portal.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Profiles", "description": "Student and guardian portal composites"},
        {"name": "Students", "description": "Student roster management"},
        {"name": "Guardians", "description": "Guardian roster management"},
        {"name": "Auth", "description": "Guardian login and password changes"},
        {"name": "Exports", "description": "Report summary downloads"},
        {"name": "Files", "description": "Locally stored objects behind signed links"}
    ],
    "paths": {
        "/students/{id}/home": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Student home composite",
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/StudentHome"}},
                    "400": {"$ref": "#/responses/BadRequest"},
                    "404": {"$ref": "#/responses/NotFound"},
                    "500": {"$ref": "#/responses/InternalError"}
                }
            }
        },
        "/students/{id}/about": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Student about composite",
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"$ref": "#/responses/NotFound"},
                    "500": {"$ref": "#/responses/InternalError"}
                }
            }
        },
        "/students/{id}/reports": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Student reports with signed download links",
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"$ref": "#/responses/NotFound"},
                    "500": {"$ref": "#/responses/InternalError"}
                }
            }
        },
        "/students/{id}/reports/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a report summary",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"$ref": "#/parameters/ID"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"$ref": "#/responses/BadRequest"},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            }
        },
        "/students/{id}/timetable": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Student timetable composite",
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"$ref": "#/responses/NotFound"},
                    "500": {"$ref": "#/responses/InternalError"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"$ref": "#/responses/BadRequest"},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [
                    {"$ref": "#/parameters/ID"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            }
        },
        "/guardians": {
            "post": {
                "tags": ["Guardians"],
                "summary": "Create guardian",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"$ref": "#/responses/BadRequest"}
                }
            }
        },
        "/guardians/{id}": {
            "get": {
                "tags": ["Guardians"],
                "summary": "Get guardian",
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            },
            "put": {
                "tags": ["Guardians"],
                "summary": "Update guardian",
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            },
            "delete": {
                "tags": ["Guardians"],
                "summary": "Delete guardian",
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            }
        },
        "/guardians/{id}/pi": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Guardian personal information composite",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"$ref": "#/responses/Unauthorized"},
                    "403": {"$ref": "#/responses/Forbidden"},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            }
        },
        "/guardians/{id}/students": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Students sharing the guardian's login email",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"$ref": "#/responses/Unauthorized"},
                    "403": {"$ref": "#/responses/Forbidden"},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            }
        },
        "/guardians/{id}/change-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Change a guardian password",
                "security": [{"BearerAuth": []}],
                "parameters": [{"$ref": "#/parameters/ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"$ref": "#/responses/BadRequest"},
                    "401": {"$ref": "#/responses/Unauthorized"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Guardian login",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"$ref": "#/responses/Unauthorized"}
                }
            }
        },
        "/files/{token}": {
            "get": {
                "tags": ["Files"],
                "summary": "Serve a locally stored object",
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "403": {"$ref": "#/responses/Forbidden"},
                    "404": {"$ref": "#/responses/NotFound"}
                }
            }
        }
    },
    "parameters": {
        "ID": {"name": "id", "in": "path", "required": true, "type": "integer", "format": "int64"}
    },
    "responses": {
        "BadRequest": {"description": "Bad request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
        "Unauthorized": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
        "Forbidden": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
        "NotFound": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
        "InternalError": {"description": "Internal error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
    },
    "definitions": {
        "StudentHome": {
            "type": "object",
            "properties": {
                "student": {"type": "object"},
                "guardianId": {"type": "integer"},
                "guardianName": {"type": "string"},
                "activePage": {"type": "string"}
            }
        },
        "StudentRequest": {
            "type": "object",
            "required": ["name", "email"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
