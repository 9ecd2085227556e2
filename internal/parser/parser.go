package parser

import (
	"regexp"
	"strconv"
	"strings"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// Формат постов канала:
//
//	#1000SHIB/USDT 🟢 Long
//	Entry: 0.0210 - 0.0215
//	🎯 0.0225
//	🎯 0.0240
//	🛑 Stop: 0.0195
//
// и отдельное "Close the Signal" для ручного закрытия.
var (
	pairRe      = regexp.MustCompile(`#(\w+)/(\w+)`)
	directionRe = regexp.MustCompile(`(?i)🟢\s*Long|🔴\s*Short|#(Short|Long)`)
	closeRe     = regexp.MustCompile(`(?i)Close the Signal`)
	entryRe     = regexp.MustCompile(`Entry\s*[:：]\s*([\d.]+)\s*-\s*([\d.]+)`)
	targetRe    = regexp.MustCompile(`🎯\s*([\d.]+)`)
	stopRe      = regexp.MustCompile(`(?i)🛑\s*Stop\s*[:：]\s*([\d.]+)`)

	// запасной вариант: пара и направление одной строкой "#ABC/USDT #Short"
	pairAndDirectionRe = regexp.MustCompile(`(?i)#(\w+)/(\w+)\s+#(Short|Long)`)
)

// Parse разбирает текст поста. Возвращает nil, если это не сигнал.
func Parse(text string) *models.ParsedMessage {
	if closeRe.MatchString(text) {
		return parseClose(text)
	}
	return parseTrade(text)
}

func parseClose(text string) *models.ParsedMessage {
	m := pairRe.FindStringSubmatch(text)
	if m == nil {
		logger.Error("parser: close signal without pair: %q", text)
		return nil
	}
	cs := &models.CloseSignal{Pair: m[1] + m[2]}
	if d := directionRe.FindString(text); d != "" {
		if strings.Contains(strings.ToLower(d), "long") {
			cs.Direction = models.DirectionLong
		} else {
			cs.Direction = models.DirectionShort
		}
	}
	return &models.ParsedMessage{Close: cs}
}

func parseTrade(text string) *models.ParsedMessage {
	sig := models.TradeSignal{}

	if m := pairRe.FindStringSubmatch(text); m != nil {
		sig.Pair = m[1] + m[2]
	}
	if d := directionRe.FindString(text); d != "" {
		if strings.Contains(strings.ToLower(d), "long") {
			sig.Direction = models.DirectionLong
		} else {
			sig.Direction = models.DirectionShort
		}
	}
	if m := entryRe.FindStringSubmatch(text); m != nil {
		lo, err1 := strconv.ParseFloat(m[1], 64)
		hi, err2 := strconv.ParseFloat(m[2], 64)
		if err1 == nil && err2 == nil {
			sig.Entry = [2]float64{lo, hi}
		}
	}
	for _, m := range targetRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			sig.Targets = append(sig.Targets, v)
		}
	}
	if m := stopRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			sig.StopLoss = v
		}
	}

	// пара и направление могли прийти одной строкой
	if sig.Pair == "" || sig.Direction == "" {
		if m := pairAndDirectionRe.FindStringSubmatch(text); m != nil {
			sig.Pair = m[1] + m[2]
			if strings.EqualFold(m[3], "long") {
				sig.Direction = models.DirectionLong
			} else {
				sig.Direction = models.DirectionShort
			}
		}
	}

	if err := validate(sig); err != nil {
		logger.Error("parser: incomplete trade signal: %v (%q)", err, text)
		return nil
	}
	return &models.ParsedMessage{Trade: &sig}
}

func validate(sig models.TradeSignal) error {
	switch {
	case sig.Pair == "":
		return errNoPair
	case sig.Direction != models.DirectionLong && sig.Direction != models.DirectionShort:
		return errNoDirection
	case sig.Entry[0] <= 0 || sig.Entry[1] <= 0:
		return errNoEntry
	case len(sig.Targets) == 0:
		return errNoTargets
	case sig.StopLoss <= 0:
		return errNoStop
	}

	// стоп обязан стоять по другую сторону от входа, цели — по свою
	if sig.Direction == models.DirectionLong {
		if sig.StopLoss >= sig.Entry[0] {
			return errStopSide
		}
		for _, t := range sig.Targets {
			if t <= sig.Entry[1] {
				return errTargetSide
			}
		}
	} else {
		if sig.StopLoss <= sig.Entry[1] {
			return errStopSide
		}
		for _, t := range sig.Targets {
			if t >= sig.Entry[0] {
				return errTargetSide
			}
		}
	}
	return nil
}
