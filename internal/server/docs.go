package server

// General API annotations for swag; endpoint annotations live with the
// handlers.

// @title Pricemap API
// @version 1.0
// @description Crowd-sourced directory of Mounjaro self-pay prices in Taiwan.
// @description
// @description Listing endpoints answer from the loaded directory and are cached per query.
// @description Reports and deletion requests enter a moderation queue and are not visible until approved.
//
// @contact.name Pricemap Project
// @contact.url https://github.com/pricemap-tw/pricemap
//
// @host localhost:8080
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for the refresh endpoint
