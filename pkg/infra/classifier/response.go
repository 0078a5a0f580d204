package classifier

import (
	"fmt"
	"strings"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/mitchellh/mapstructure"
	"github.com/valyala/fastjson"
)

// parseResponse reads {classification, reason?, trust_level?, client_info?}.
// Only the classification field is mandatory.
func parseResponse(body []byte) (classification.Verdict, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(body)
	if err != nil {
		return classification.Verdict{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	raw := v.GetStringBytes("classification")
	if raw == nil {
		return classification.Verdict{}, fmt.Errorf("%w: missing classification", ErrMalformedResponse)
	}
	value, ok := classification.Parse(string(raw))
	if !ok {
		return classification.Verdict{}, fmt.Errorf("%w: unknown classification %q", ErrMalformedResponse, raw)
	}

	verdict := classification.Verdict{
		Classification: value,
		Source:         classification.SourceRemoteAPI,
		Reason:         string(v.GetStringBytes("reason")),
		TrustLevel:     trustLevel(v),
	}
	if verdict.Reason == "" {
		verdict.Reason = "remote classification"
	}

	for _, key := range []string{"client_info", "clientInfo"} {
		info := v.GetObject(key)
		if info == nil {
			continue
		}
		if clientInfo, err := decodeClientInfo(info); err == nil {
			verdict.ClientInfo = clientInfo
		}
		break
	}
	return verdict, nil
}

func trustLevel(v *fastjson.Value) int {
	for _, key := range []string{"trust_level", "trustLevel"} {
		field := v.Get(key)
		if field == nil {
			continue
		}
		switch field.Type() {
		case fastjson.TypeNumber:
			return int(field.GetFloat64())
		case fastjson.TypeString:
			var n int
			if _, err := fmt.Sscanf(string(field.GetStringBytes()), "%d", &n); err == nil {
				return n
			}
		}
	}
	return 0
}

func decodeClientInfo(obj *fastjson.Object) (*classification.ClientInfo, error) {
	fields := make(map[string]interface{}, obj.Len())
	obj.Visit(func(key []byte, value *fastjson.Value) {
		switch value.Type() {
		case fastjson.TypeString:
			fields[string(key)] = string(value.GetStringBytes())
		case fastjson.TypeNumber:
			fields[string(key)] = value.String()
		}
	})

	var info classification.ClientInfo
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &info,
		WeaklyTypedInput: true,
		MatchName: func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		},
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(fields); err != nil {
		return nil, fmt.Errorf("failed to decode client_info: %w", err)
	}
	return &info, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", ""))
}
