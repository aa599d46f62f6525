package cmd

import (
	"context"
	"time"

	"github.com/etnz/stk/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion(app *App) *complete.Command {
	topics, _ := docs.Names()
	tickers := heldTickers(app)
	ticker := map[string]complete.Predictor{"t": tickers}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"plain":  predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"deposit":  {Flags: map[string]complete.Predictor{"a": predict.Something}},
			"withdraw": {Flags: map[string]complete.Predictor{"a": predict.Something}},
			"buy": {Flags: map[string]complete.Predictor{
				"t": tickers,
				"q": predict.Something,
				"p": predict.Something,
				"c": predict.Something,
			}},
			"sell":     {Flags: map[string]complete.Predictor{"t": tickers, "p": predict.Something}},
			"refresh":  {Flags: ticker},
			"remove":   {Flags: ticker},
			"clear":    {Flags: map[string]complete.Predictor{"y": predict.Nothing}},
			"holdings": {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
			"wallet":   {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
			"history":  {Flags: map[string]complete.Predictor{"u": predict.Nothing}},
			"export":   {Flags: map[string]complete.Predictor{"o": predict.Files("*.csv")}},
			"quote":    {Flags: map[string]complete.Predictor{"t": tickers, "d": predict.Something}},
			"chart": {Flags: map[string]complete.Predictor{
				"t": tickers,
				"i": predict.Set{"1day", "1week", "1month"},
				"n": predict.Something,
			}},
			"watch":  {Flags: map[string]complete.Predictor{"every": predict.Something, "n": predict.Something}},
			"serve":  {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"assist": {},
			"topic": {
				Flags: map[string]complete.Predictor{"l": predict.Nothing},
				Args:  predict.Set(append(topics, "*")),
			},
			"help":     {},
			"commands": {},
			"flags":    {},
		},
	}
}

// heldTickers predicts the tickers of the open positions.
func heldTickers(app *App) complete.Predictor {
	return complete.PredictFunc(func(prefix string) []string {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		e, done, err := app.engine(ctx)
		defer done()
		if err != nil {
			return nil
		}
		s, err := e.State(ctx)
		if err != nil {
			return nil
		}
		return s.Holdings.Tickers()
	})
}
