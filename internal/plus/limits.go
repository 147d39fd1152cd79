package plus

import (
	"encoding/json"
	"log/slog"
)

// PublishLimits scans a response body for the top-level "ol" quota object
// and republishes it through the Notifier. Most responses carry no quota;
// that is the common case, not an error. Malformed shapes are logged and
// swallowed so this path never fails a request.
func (c *Client) PublishLimits(body []byte) {
	if len(body) == 0 {
		return
	}
	var envelope struct {
		OL json.RawMessage `json:"ol"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		slog.Error("scanning response for usage limits failed", "error", err)
		return
	}
	if envelope.OL == nil {
		return
	}
	if limit, used, ok := decodeLimits(envelope.OL); ok {
		c.notify.UpdateLimits(UsageLimits{Limit: limit, Used: used})
	}
}

// decodeLimits extracts the rlimit/rused pair from a quota object.
// Both fields must be present and numeric.
func decodeLimits(raw json.RawMessage) (limit, used float64, ok bool) {
	if len(raw) == 0 {
		return 0, 0, false
	}
	var quota struct {
		RLimit *float64 `json:"rlimit"`
		RUsed  *float64 `json:"rused"`
	}
	if err := json.Unmarshal(raw, &quota); err != nil {
		slog.Error("malformed usage limits", "error", err)
		return 0, 0, false
	}
	if quota.RLimit == nil || quota.RUsed == nil {
		return 0, 0, false
	}
	return *quota.RLimit, *quota.RUsed, true
}
