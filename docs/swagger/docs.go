// Package swagger holds the generated OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@marketledger.dev"
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
        "/accounts/{account}/items": {
            "get": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Owned items",
                "parameters": [
                    {"type": "string", "name": "account", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/OwnedItemsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/fee": {
            "get": {
                "produces": ["application/json"],
                "tags": ["fee"],
                "summary": "Get fee percentage",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/FeeResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["fee"],
                "summary": "Set fee percentage",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetFeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/FeeResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "List an item",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ListItemRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ItemResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/count": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Count items",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CountResponse"}}
                }
            }
        },
        "/items/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Get item",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/{id}/buy": {
            "post": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Buy item",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/PurchaseResponse"}},
                    "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/{id}/fee": {
            "get": {
                "produces": ["application/json"],
                "tags": ["fee"],
                "summary": "Quote purchase fee",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/QuoteFeeResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/{id}/relist": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Relist item",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RelistItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/{id}/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Get item summary",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemSummaryResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/items/{id}/unlist": {
            "post": {
                "produces": ["application/json"],
                "tags": ["items"],
                "summary": "Unlist item",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ItemResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "CountResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer", "example": 42}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "item not found"}
            }
        },
        "FeeResponse": {
            "type": "object",
            "properties": {
                "percentage": {"type": "integer", "example": 2}
            }
        },
        "ItemResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 0},
                "name": {"type": "string", "example": "Painting"},
                "description": {"type": "string", "example": "Oil on canvas"},
                "image": {"type": "string", "example": "https://cdn.example.com/painting.jpg"},
                "location": {"type": "string", "example": "Berlin"},
                "price": {"type": "integer", "example": 250000000},
                "owner": {"type": "string", "example": "alice"},
                "listed": {"type": "boolean", "example": true},
                "history": {"type": "array", "items": {"$ref": "#/definitions/TransactionResponse"}}
            }
        },
        "ItemSummaryResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "example": 0},
                "name": {"type": "string", "example": "Painting"},
                "location": {"type": "string", "example": "Berlin"},
                "price": {"type": "integer", "example": 250000000},
                "owner": {"type": "string", "example": "alice"},
                "listed": {"type": "boolean", "example": true}
            }
        },
        "ListItemRequest": {
            "type": "object",
            "required": ["name", "location", "price"],
            "properties": {
                "name": {"type": "string", "example": "Painting"},
                "description": {"type": "string", "example": "Oil on canvas"},
                "image": {"type": "string", "example": "https://cdn.example.com/painting.jpg"},
                "location": {"type": "string", "example": "Berlin"},
                "price": {"type": "integer", "example": 250000000}
            }
        },
        "OwnedItemsResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/ItemResponse"}}
            }
        },
        "PurchaseResponse": {
            "type": "object",
            "properties": {
                "item": {"$ref": "#/definitions/ItemResponse"},
                "seller": {"type": "string", "example": "alice"},
                "fee": {"type": "integer", "example": 5000000}
            }
        },
        "QuoteFeeResponse": {
            "type": "object",
            "properties": {
                "fee": {"type": "integer", "example": 5000000}
            }
        },
        "RelistItemRequest": {
            "type": "object",
            "required": ["location", "price"],
            "properties": {
                "location": {"type": "string", "example": "Paris"},
                "price": {"type": "integer", "example": 300000000}
            }
        },
        "SetFeeRequest": {
            "type": "object",
            "properties": {
                "percentage": {"type": "integer", "example": 5}
            }
        },
        "TransactionResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "ADD"},
                "from": {"type": "string", "example": "alice"},
                "price": {"type": "integer", "example": 250000000},
                "created_at": {"type": "string", "example": "2025-01-01T00:00:00Z"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Market Ledger API",
	Description:      "Item marketplace ledger with token-settled purchases and per-item transaction history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
