package cmd

import (
	"github.com/etnz/commission/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	rules := map[string]complete.Predictor{
		"deposit-rate":     predict.Something,
		"deposit-max":      predict.Something,
		"withdrawal-rate":  predict.Something,
		"organization-min": predict.Something,
		"free-allowance":   predict.Something,
		"currency":         predict.Set{"EUR", "USD", "GBP", "JPY"},
		"subunits":         predict.Set{"1", "10", "100", "1000"},
	}

	compute := map[string]complete.Predictor{
		"fresh":          predict.Nothing,
		"md":             predict.Nothing,
		"date-path":      predict.Something,
		"type-path":      predict.Something,
		"user-type-path": predict.Something,
		"user-id-path":   predict.Something,
		"amount-path":    predict.Something,
		"currency-path":  predict.Something,
	}
	for name, p := range rules {
		compute[name] = p
	}

	topics, err := docs.GetAllTopics()
	if err != nil {
		logger.WithError(err).Debug("cannot list documentation topics")
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"store":         predict.Files("*.json"),
			"kafka-brokers": predict.Something,
			"kafka-topic":   predict.Something,
			"v":             predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"compute": {Flags: compute, Args: predict.Files("*.json*")},
			"quota":   {Flags: rules},
			"reset":   {},
			"topic": {
				Flags: map[string]complete.Predictor{"html": predict.Nothing},
				Args:  predict.Set(append(topics, "*")),
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
