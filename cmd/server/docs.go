package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           Riddleward API
// @version         0.1.0
// @description     Riddle rotation, answer verification, and reward grants.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
