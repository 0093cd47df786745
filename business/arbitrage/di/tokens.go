// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/fd1az/flashloan-scanner/business/arbitrage/app"
	"github.com/fd1az/flashloan-scanner/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Scanner = di.NewToken[*app.Scanner]("arbitrage.Scanner")
)

// Private dependency tokens - internal to arbitrage module
var (
	Calculator = di.NewToken[*app.ProfitCalculator]("arbitrage:calculator")
	Detector   = di.NewToken[*app.Detector]("arbitrage:detector")
	Ranker     = di.NewToken[*app.Ranker]("arbitrage:ranker")
	Executor   = di.NewToken[app.Executor]("arbitrage:executor")
	Reporter   = di.NewToken[app.Reporter]("arbitrage:reporter")
)

// Helper functions for type-safe access
func GetScanner(c di.ServiceRegistry) *app.Scanner {
	return di.GetToken(c, Scanner)
}

func GetCalculator(c di.ServiceRegistry) *app.ProfitCalculator {
	return di.GetToken(c, Calculator)
}

func GetDetector(c di.ServiceRegistry) *app.Detector {
	return di.GetToken(c, Detector)
}

func GetRanker(c di.ServiceRegistry) *app.Ranker {
	return di.GetToken(c, Ranker)
}

func GetExecutor(c di.ServiceRegistry) app.Executor {
	return di.GetToken(c, Executor)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
