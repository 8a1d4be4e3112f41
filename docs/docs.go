// Package docs registers the OpenAPI document served at /swagger/doc.json.
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
        "/health": {
            "get": {"tags": ["System"], "summary": "Liveness probe", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"tags": ["System"], "summary": "Readiness probe", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/v1/players": {
            "get": {
                "tags": ["Players"], "summary": "List active players", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Team abbreviation filter", "name": "team", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.ActivePlayer"}}}}
            }
        },
        "/api/v1/players/search": {
            "get": {
                "tags": ["Players"], "summary": "Resolve player by name", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "Full player name", "name": "name", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ActivePlayer"}}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/players/{playerId}/props": {
            "get": {
                "tags": ["Props"], "summary": "Prop report", "produces": ["application/json"],
                "description": "Hit rates per selected line, performance and minutes series, minutes trend, head-to-head and recent averages. Any prop stat (PTS, REB, AST, STL, BLK, TOV, FG3M, Pts+Ast, Pts+Reb, Ast+Reb, Stl+Blk, PRA) may be passed as a query key with a half-point line.",
                "parameters": [
                    {"type": "integer", "description": "Player ID", "name": "playerId", "in": "path", "required": true},
                    {"type": "number", "description": "Points line", "name": "PTS", "in": "query"},
                    {"type": "string", "description": "Opponent abbreviation", "name": "opponent", "in": "query"},
                    {"type": "integer", "description": "Games to show (5, 10, 15, 20)", "name": "games", "in": "query"},
                    {"type": "string", "description": "Comma separated hit-rate windows", "name": "windows", "in": "query"},
                    {"type": "string", "description": "Board session supplying opponent and games when omitted", "name": "session", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/players/{playerId}/hitrate": {
            "get": {
                "tags": ["Props"], "summary": "Hit rate for a single line", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Player ID", "name": "playerId", "in": "path", "required": true},
                    {"type": "string", "description": "Stat", "name": "stat", "in": "query", "required": true},
                    {"type": "number", "description": "Half-point line", "name": "line", "in": "query", "required": true},
                    {"type": "string", "description": "Comma separated windows", "name": "windows", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/players/{playerId}/minutes": {
            "get": {
                "tags": ["Props"], "summary": "Minutes trend", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "Player ID", "name": "playerId", "in": "path", "required": true},
                    {"type": "integer", "description": "Games used for the fit", "name": "games", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/teams": {
            "get": {"tags": ["Reference"], "summary": "List opponent teams", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/lines": {
            "get": {"tags": ["Reference"], "summary": "List selectable lines", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/cache": {
            "delete": {"tags": ["System"], "summary": "Refresh data", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/board/{sessionId}": {
            "get": {"tags": ["Board"], "summary": "Get board", "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["Board"], "summary": "Reset board session", "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/board/{sessionId}/pins": {
            "post": {"tags": ["Board"], "summary": "Pin a prop", "consumes": ["application/json"], "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "200": {"description": "Already pinned"}, "400": {"description": "Bad Request"}}},
            "delete": {"tags": ["Board"], "summary": "Clear board", "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/board/{sessionId}/pins/{pinId}": {
            "delete": {"tags": ["Board"], "summary": "Unpin a prop", "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}, {"type": "string", "name": "pinId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/board/{sessionId}/opponent": {
            "put": {"tags": ["Board"], "summary": "Set opponent", "consumes": ["application/json"], "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/board/{sessionId}/games": {
            "put": {"tags": ["Board"], "summary": "Set games to show", "consumes": ["application/json"], "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/board/{sessionId}/export": {
            "get": {"tags": ["Board"], "summary": "Export board", "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/board/{sessionId}/import": {
            "post": {"tags": ["Board"], "summary": "Import board", "consumes": ["application/json"], "parameters": [{"type": "string", "name": "sessionId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/system/install": {
            "post": {"tags": ["System"], "summary": "Install Database Schema", "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}
        }
    },
    "definitions": {
        "models.ActivePlayer": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "full_name": {"type": "string"},
                "team_abbr": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Prop Lab API",
	Description:      "NBA player prop hit rates, minutes trends and prop boards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
