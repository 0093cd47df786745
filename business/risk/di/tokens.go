// Package di contains dependency injection tokens for the risk context.
package di

import (
	"github.com/fd1az/flashloan-scanner/business/risk/app"
	"github.com/fd1az/flashloan-scanner/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Engine = di.NewToken[*app.Engine]("risk.Engine")
)

// Helper functions for type-safe access
func GetEngine(c di.ServiceRegistry) *app.Engine {
	return di.GetToken(c, Engine)
}
