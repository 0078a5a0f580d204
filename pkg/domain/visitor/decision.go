package visitor

import "github.com/NeuralTrust/TrustCloak/pkg/domain/classification"

type Decision struct {
	Destination    string
	Verdict        classification.Verdict
	ParamsStripped bool
	EmailCaptured  bool
	Email          string
	Trace          []string
}
