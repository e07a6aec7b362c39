package engine

import "ordercore/models"

// Side, Buy and Sell are local aliases for the model-level side so the
// book and matching code below reads the way the original core does,
// without repeating the models. qualifier on every line.
type Side = models.Side

const (
	Buy  = models.Buy
	Sell = models.Sell
)
