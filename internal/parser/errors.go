package parser

import "errors"

var (
	errNoPair      = errors.New("pair not found")
	errNoDirection = errors.New("direction not found")
	errNoEntry     = errors.New("entry range not found")
	errNoTargets   = errors.New("targets not found")
	errNoStop      = errors.New("stop loss not found")
	errStopSide    = errors.New("stop loss on the wrong side of entry")
	errTargetSide  = errors.New("target on the wrong side of entry")
)
