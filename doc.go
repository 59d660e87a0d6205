// Package main provides the entry point for the user and role management
// service. It runs a Fiber based REST API that manages users and roles in a
// Keycloak compatible identity provider, resolves per-role navigation menus
// from a local database via gorm and exposes the authentication endpoints
// used by the frontend (login, token refresh, password change).
package main
