// Package account registers the OpenAPI description of the account service
// with swag so /swagger/ can serve it. Regenerate with
// `swag init -g internal/account/http/router.go -o api/account`.
package account

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/account"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/Token": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["OAuth2"],
                "summary": "OAuth2 Token Endpoint",
                "parameters": [
                    {"type": "string", "enum": ["password"], "name": "grant_type", "in": "formData", "required": true},
                    {"type": "string", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "name": "client_id", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.OAuth2Error"}}
                }
            }
        },
        "/api/Account/UserInfo": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.UserInfo"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/api/Account/ManageInfo": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Linked logins",
                "parameters": [
                    {"type": "string", "name": "returnUrl", "in": "query"},
                    {"type": "boolean", "name": "generateState", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.ManageInfo"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/api/Account/ChangePassword": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Account"],
                "summary": "Change the local password",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/api/Account/SetPassword": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Account"],
                "summary": "Add a local password to a user without one",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.SetPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/api/Account/AddExternalLogin": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Account"],
                "summary": "Link an external login",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.AddExternalLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/authsdk.OAuth2Error"}}
                }
            }
        },
        "/api/Account/RemoveLogin": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["Account"],
                "summary": "Unlink a login",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.RemoveLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/api/Account/ExternalLogin": {
            "get": {
                "produces": ["application/json"],
                "tags": ["OAuth2"],
                "summary": "External login authorize endpoint",
                "parameters": [
                    {"type": "string", "name": "provider", "in": "query", "required": true},
                    {"type": "string", "name": "response_type", "in": "query", "required": true},
                    {"type": "string", "name": "client_id", "in": "query", "required": true},
                    {"type": "string", "name": "redirect_uri", "in": "query"},
                    {"type": "string", "name": "state", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.TokenResponse"}},
                    "302": {"description": "Found"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.OAuth2Error"}}
                }
            }
        },
        "/api/Account/ExternalLoginComplete": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Finish an external login",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.PendingRegistration"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/authsdk.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/authsdk.OAuth2Error"}}
                }
            }
        },
        "/api/Account/ExternalLogins": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "External login providers",
                "parameters": [
                    {"type": "string", "name": "returnUrl", "in": "query"},
                    {"type": "boolean", "name": "generateState", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/authsdk.ExternalLogin"}}}
                }
            }
        },
        "/api/Account/Register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Register a local user",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/api/Account/RegisterExternal": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Account"],
                "summary": "Register a user for an external login",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authsdk.RegisterExternalRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.APIError"}}
                }
            }
        },
        "/signin-{provider}": {
            "get": {
                "tags": ["OAuth2"],
                "summary": "Provider callback",
                "parameters": [
                    {"type": "string", "name": "provider", "in": "path", "required": true},
                    {"type": "string", "name": "code", "in": "query"},
                    {"type": "string", "name": "state", "in": "query", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/authsdk.OAuth2Error"}}
                }
            }
        },
        "/api/message": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Message"],
                "summary": "Hello world",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.Message"}}
                }
            }
        },
        "/livez": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/authsdk.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "authsdk.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"},
                "userName": {"type": "string"},
                ".issued": {"type": "string"},
                ".expires": {"type": "string"}
            }
        },
        "authsdk.OAuth2Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "authsdk.APIError": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "modelState": {
                    "type": "object",
                    "additionalProperties": {"type": "array", "items": {"type": "string"}}
                }
            }
        },
        "authsdk.UserInfo": {
            "type": "object",
            "properties": {"userName": {"type": "string"}}
        },
        "authsdk.UserLoginInfo": {
            "type": "object",
            "properties": {
                "loginProvider": {"type": "string"},
                "providerKey": {"type": "string"}
            }
        },
        "authsdk.ExternalLogin": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "url": {"type": "string"},
                "state": {"type": "string"}
            }
        },
        "authsdk.ManageInfo": {
            "type": "object",
            "properties": {
                "localLoginProvider": {"type": "string"},
                "userName": {"type": "string"},
                "logins": {"type": "array", "items": {"$ref": "#/definitions/authsdk.UserLoginInfo"}},
                "externalLoginProviders": {"type": "array", "items": {"$ref": "#/definitions/authsdk.ExternalLogin"}}
            }
        },
        "authsdk.PendingRegistration": {
            "type": "object",
            "properties": {
                "loginProvider": {"type": "string"},
                "userName": {"type": "string"}
            }
        },
        "authsdk.RegisterRequest": {
            "type": "object",
            "properties": {
                "userName": {"type": "string"},
                "password": {"type": "string"},
                "confirmPassword": {"type": "string"}
            }
        },
        "authsdk.ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "oldPassword": {"type": "string"},
                "newPassword": {"type": "string"},
                "confirmPassword": {"type": "string"}
            }
        },
        "authsdk.SetPasswordRequest": {
            "type": "object",
            "properties": {
                "newPassword": {"type": "string"},
                "confirmPassword": {"type": "string"}
            }
        },
        "authsdk.AddExternalLoginRequest": {
            "type": "object",
            "properties": {"externalAccessToken": {"type": "string"}}
        },
        "authsdk.RemoveLoginRequest": {
            "type": "object",
            "properties": {
                "loginProvider": {"type": "string"},
                "providerKey": {"type": "string"}
            }
        },
        "authsdk.RegisterExternalRequest": {
            "type": "object",
            "properties": {"userName": {"type": "string"}}
        },
        "authsdk.Message": {
            "type": "object",
            "properties": {"text": {"type": "string"}}
        },
        "authsdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "codec": {"type": "string"}
            }
        },
        "authsdk.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/authsdk.HealthChecks"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Account Service API",
	Description:      "OAuth2 bearer token account service: password grant, local registration and external login linking.\n\nBearer tokens are opaque. They are only meaningful to this service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
