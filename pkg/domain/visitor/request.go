package visitor

// Request carries everything the decision engine reads from an inbound hit.
type Request struct {
	IP             string
	UserAgent      string
	Referer        string
	Accept         string
	AcceptLanguage string
	AcceptEncoding string
	XRequestedWith string
	RawURL         string
	Query          string
	Fragment       string
	Origin         string
	RequestID      string
}
