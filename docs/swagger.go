// Package docs Gaurosa API documentation
package docs

// Swagger documentation info
// @title Gaurosa Storefront API
// @version 1.0
// @description Customer authentication and MazGest synchronization API for the Gaurosa jewelry storefront

// @contact.name API Support
// @contact.email support@gaurosa.it

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Api-Key
// @description MazGest sync API key

// @tag.name auth
// @tag.description Customer registration, login, sessions and account recovery

// @tag.name sync
// @tag.description MazGest catalog, customer and order synchronization

// @tag.name webhook
// @tag.description Payment provider webhooks
