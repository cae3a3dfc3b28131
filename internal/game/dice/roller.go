package dice

import "go.uber.org/zap"

// Percentile is the d100 used for every crit check.
var Percentile = MustParse("1d100")

// Roll evaluates expr using src.
//
// Precondition: expr must come from Parse; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
}

// Roller wraps a Source and logger so every draw a battle makes is audited at debug
// level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil || logger == nil {
		panic("dice.NewLoggedRoller: precondition violated: src and logger must be non-nil")
	}
	return &Roller{src: src, logger: logger}
}

// Roll evaluates expr and logs the result with reason.
func (r *Roller) Roll(expr Expression, reason string) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("reason", reason),
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// Check rolls a d100 against chance and reports success when the roll is at most
// chance. A non-positive chance never rolls and never succeeds.
func (r *Roller) Check(chance int, reason string) bool {
	if chance <= 0 {
		return false
	}
	return r.Roll(Percentile, reason).Total() <= chance
}
