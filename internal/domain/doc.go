// Package domain contains the core business concepts of the lab forms service.
// Keep this package free of transport (HTTP) and infrastructure (Redis/mail) concerns.
package domain
