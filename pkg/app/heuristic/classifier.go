package heuristic

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
)

const minUserAgentLength = 20

var versionPattern = regexp.MustCompile(`\d+\.\d+`)

// Classifier evaluates request headers without any I/O. A false second
// return value means the rules could not decide and the caller should ask the
// remote classifier.
type Classifier interface {
	Classify(req visitor.Request) (classification.Verdict, bool)
}

type classifier struct{}

func NewClassifier() Classifier {
	return &classifier{}
}

type rule func(req visitor.Request, ua string) (string, bool)

// rules run in order and stop at the first match. Every deployed copy of the
// engine evaluates exactly this sequence.
var rules = []rule{
	emptyUserAgent,
	blockedToken,
	automationIndicator,
	missingAcceptLanguage,
	wildcardAcceptWithoutLanguage,
	puppeteerRequestedWith,
	shortUserAgent,
	missingVersion,
	missingBrowserToken,
}

func (c *classifier) Classify(req visitor.Request) (classification.Verdict, bool) {
	ua := strings.ToLower(req.UserAgent)
	for _, r := range rules {
		if reason, matched := r(req, ua); matched {
			return classification.NewBot(classification.SourceLocalHeuristic, reason), true
		}
	}
	return classification.Verdict{}, false
}

func emptyUserAgent(req visitor.Request, _ string) (string, bool) {
	return "empty user agent", strings.TrimSpace(req.UserAgent) == ""
}

func blockedToken(_ visitor.Request, ua string) (string, bool) {
	for _, list := range blockedTokenLists {
		for _, token := range list.tokens {
			if strings.Contains(ua, token) {
				return fmt.Sprintf("%s token %q in user agent", list.name, token), true
			}
		}
	}
	return "", false
}

func automationIndicator(_ visitor.Request, ua string) (string, bool) {
	for _, token := range automationIndicators {
		if strings.Contains(ua, token) {
			return fmt.Sprintf("automation indicator %q in user agent", token), true
		}
	}
	return "", false
}

func missingAcceptLanguage(req visitor.Request, _ string) (string, bool) {
	return "missing accept-language header", req.AcceptLanguage == ""
}

// Unreachable after missingAcceptLanguage; kept so the rule sequence matches
// the other deployments one to one.
func wildcardAcceptWithoutLanguage(req visitor.Request, _ string) (string, bool) {
	return "wildcard accept without accept-language", req.Accept == "*/*" && req.AcceptLanguage == ""
}

func puppeteerRequestedWith(req visitor.Request, _ string) (string, bool) {
	return "x-requested-with puppeteer", strings.EqualFold(req.XRequestedWith, "puppeteer")
}

func shortUserAgent(req visitor.Request, _ string) (string, bool) {
	return "user agent too short", utf8.RuneCountInString(req.UserAgent) < minUserAgentLength
}

func missingVersion(req visitor.Request, _ string) (string, bool) {
	return "user agent without version", !versionPattern.MatchString(req.UserAgent)
}

func missingBrowserToken(_ visitor.Request, ua string) (string, bool) {
	for _, token := range browserTokens {
		if strings.Contains(ua, token) {
			return "", false
		}
	}
	return "user agent without browser token", true
}
