package decision

import (
	"context"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/app/autograb"
	"github.com/NeuralTrust/TrustCloak/pkg/app/botcache"
	"github.com/NeuralTrust/TrustCloak/pkg/app/heuristic"
	"github.com/NeuralTrust/TrustCloak/pkg/app/routing"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/NeuralTrust/TrustCloak/pkg/domain/visitor"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/prometheus"
	"github.com/NeuralTrust/TrustCloak/pkg/infra/useragent"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type State string

const (
	StateStart          State = "START"
	StateCacheCheck     State = "CACHE_CHECK"
	StateLocalHeuristic State = "LOCAL_HEURISTIC"
	StateRemoteCall     State = "REMOTE_CALL"
	StateCacheWrite     State = "CACHE_WRITE"
	StateRoute          State = "ROUTE"
	StateEmailCapture   State = "EMAIL_CAPTURE"
	StateTerminal       State = "TERMINAL"
)

// RemoteClassifier must return a usable verdict even when err is non-nil.
type RemoteClassifier interface {
	Classify(ctx context.Context, req *visitor.Request) (classification.Verdict, error)
}

type Orchestrator interface {
	Decide(ctx context.Context, req visitor.Request) visitor.Decision
}

type orchestrator struct {
	logger     *logrus.Logger
	cache      botcache.Cache
	heuristic  heuristic.Classifier
	remote     RemoteClassifier
	router     routing.Router
	dispatcher visitor.Dispatcher
	now        func() time.Time
}

// NewOrchestrator wires the decision pipeline. remote and dispatcher may be
// nil: without a remote classifier undetermined visitors default to HUMAN,
// without a dispatcher nothing is captured or logged.
func NewOrchestrator(
	logger *logrus.Logger,
	cache botcache.Cache,
	heuristic heuristic.Classifier,
	remote RemoteClassifier,
	router routing.Router,
	dispatcher visitor.Dispatcher,
) Orchestrator {
	return &orchestrator{
		logger:     logger,
		cache:      cache,
		heuristic:  heuristic,
		remote:     remote,
		router:     router,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (o *orchestrator) Decide(ctx context.Context, req visitor.Request) visitor.Decision {
	start := o.now()
	d := visitor.Decision{Trace: []string{string(StateStart)}}

	d.Verdict = o.classify(ctx, &req, &d)

	d.Trace = append(d.Trace, string(StateRoute))
	route := o.router.Route(req, d.Verdict.Classification)
	d.Destination = route.URL
	d.ParamsStripped = route.ParamsStripped

	if !d.Verdict.IsBot() {
		if email, ok := autograb.First(req.RawURL); ok {
			d.Trace = append(d.Trace, string(StateEmailCapture))
			d.Email = email
			d.EmailCaptured = o.capture(req, email, start)
		}
	}

	d.Trace = append(d.Trace, string(StateTerminal))
	o.record(req, d, start)
	return d
}

func (o *orchestrator) classify(ctx context.Context, req *visitor.Request, d *visitor.Decision) classification.Verdict {
	d.Trace = append(d.Trace, string(StateCacheCheck))
	if entry, ok := o.cache.Get(req.IP); ok {
		prometheus.CacheLookupsTotal.WithLabelValues("hit").Inc()
		o.cache.IncrementHit(req.IP)
		return entry.Verdict()
	}
	prometheus.CacheLookupsTotal.WithLabelValues("miss").Inc()

	d.Trace = append(d.Trace, string(StateLocalHeuristic))
	if verdict, ok := o.heuristic.Classify(*req); ok {
		o.write(req.IP, verdict, d)
		return verdict
	}

	d.Trace = append(d.Trace, string(StateRemoteCall))
	if o.remote == nil {
		return classification.NewHuman(classification.SourceDefault, "no remote classifier configured")
	}
	verdict, err := o.remote.Classify(ctx, req)
	if err != nil {
		o.logger.WithError(err).WithFields(logrus.Fields{
			"ip":         req.IP,
			"request_id": req.RequestID,
		}).Warn("remote classification unavailable, defaulting to human")
	}
	if verdict.Classification == "" {
		verdict = classification.NewHuman(classification.SourceDefault, "empty remote verdict")
	}
	if verdict.IsBot() {
		o.write(req.IP, verdict, d)
	}
	return verdict
}

func (o *orchestrator) write(ip string, verdict classification.Verdict, d *visitor.Decision) {
	d.Trace = append(d.Trace, string(StateCacheWrite))
	if !o.cache.Put(ip, verdict) {
		o.logger.WithField("ip", ip).Debug("bot verdict not cached")
	}
}

func (o *orchestrator) capture(req visitor.Request, email string, now time.Time) bool {
	if o.dispatcher == nil {
		return false
	}
	return o.dispatcher.CaptureEmail(visitor.CapturedEmail{
		Email:      email,
		IP:         req.IP,
		UserAgent:  req.UserAgent,
		SourceURL:  req.RawURL,
		CapturedAt: now.UTC(),
	})
}

func (o *orchestrator) record(req visitor.Request, d visitor.Decision, start time.Time) {
	prometheus.DecisionsTotal.WithLabelValues(string(d.Verdict.Classification), string(d.Verdict.Source)).Inc()
	if prometheus.Config.EnableLatency {
		prometheus.DecisionLatency.Observe(float64(o.now().Sub(start).Milliseconds()))
	}

	o.logger.WithFields(logrus.Fields{
		"ip":              req.IP,
		"request_id":      req.RequestID,
		"classification":  d.Verdict.Classification,
		"source":          d.Verdict.Source,
		"reason":          d.Verdict.Reason,
		"params_stripped": d.ParamsStripped,
		"email_captured":  d.EmailCaptured,
	}).Info("redirect decided")

	if o.dispatcher == nil {
		return
	}
	ua := useragent.Parse(req.UserAgent, req.AcceptLanguage)
	o.dispatcher.RecordVisit(visitor.Visit{
		ID:             uuid.New(),
		IP:             req.IP,
		UserAgent:      req.UserAgent,
		Referer:        req.Referer,
		Browser:        ua.Browser,
		OS:             ua.OS,
		Device:         ua.Device,
		Classification: string(d.Verdict.Classification),
		Source:         string(d.Verdict.Source),
		Reason:         d.Verdict.Reason,
		Destination:    d.Destination,
		EmailCaptured:  d.EmailCaptured,
		CreatedAt:      start.UTC(),
	})
}
