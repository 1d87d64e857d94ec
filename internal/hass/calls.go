package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CallService invokes a platform service, fire and forget. The command is
// assigned a correlation id because the protocol requires one, but no
// response is awaited; the outcome arrives as a state_changed event.
func (c *Client) CallService(domain, service, entityID string, data map[string]any) error {
	if !c.Connected() {
		return ErrNotConnected
	}
	msg := callServiceMessage{
		ID:          c.broker.nextCorrelationID(),
		Type:        cmdCallService,
		Domain:      domain,
		Service:     service,
		ServiceData: data,
	}
	if entityID != "" {
		msg.Target = &serviceTarget{EntityID: entityID}
	}
	return c.writeJSON(msg)
}

// SignPath asks the platform to produce a short-lived authorised URL for a
// relative resource path (camera snapshots, media). Returns the signed path.
func (c *Client) SignPath(ctx context.Context, path string) (string, error) {
	raw, err := c.call(ctx, func(id int64) any {
		return signPathMessage{ID: id, Type: cmdSignPath, Path: path}
	}, c.callTimeout())
	if err != nil {
		return "", err
	}
	var res signPathResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("hass: decoding sign_path result: %w", err)
	}
	return res.Path, nil
}

// CameraStreamURL asks the platform for a live stream URL for a camera
// entity.
func (c *Client) CameraStreamURL(ctx context.Context, entityID string) (string, error) {
	raw, err := c.call(ctx, func(id int64) any {
		return cameraStreamMessage{ID: id, Type: cmdCameraStream, EntityID: entityID}
	}, c.callTimeout())
	if err != nil {
		return "", err
	}
	var res cameraStreamResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("hass: decoding camera stream result: %w", err)
	}
	return res.URL, nil
}

// PlatformConfig fetches the platform's configuration (coordinates,
// location name, version).
func (c *Client) PlatformConfig(ctx context.Context) (*PlatformInfo, error) {
	raw, err := c.call(ctx, func(id int64) any {
		return commandMessage{ID: id, Type: cmdGetConfig}
	}, c.callTimeout())
	if err != nil {
		return nil, err
	}
	var info PlatformInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("hass: decoding platform config: %w", err)
	}
	return &info, nil
}

// History fetches condensed historical samples for the given entities over
// [start, end). History scans can be slow server-side, so this call uses
// the wider history timeout.
func (c *Client) History(ctx context.Context, entityIDs []string, start, end time.Time) (map[string][]HistorySample, error) {
	raw, err := c.call(ctx, func(id int64) any {
		return historyMessage{
			ID:              id,
			Type:            cmdHistoryDuring,
			StartTime:       start.UTC().Format(time.RFC3339),
			EndTime:         end.UTC().Format(time.RFC3339),
			EntityIDs:       strings.Join(entityIDs, ","),
			MinimalResponse: true,
			NoAttributes:    true,
		}
	}, time.Duration(c.cfg.HistoryTimeout)*time.Second)
	if err != nil {
		return nil, err
	}

	var condensed map[string][]condensedSample
	if err := json.Unmarshal(raw, &condensed); err != nil {
		return nil, fmt.Errorf("hass: decoding history result: %w", err)
	}

	out := make(map[string][]HistorySample, len(condensed))
	for entityID, rows := range condensed {
		samples := make([]HistorySample, 0, len(rows))
		for _, row := range rows {
			sec, frac := int64(row.LastUpdated), row.LastUpdated-float64(int64(row.LastUpdated))
			samples = append(samples, HistorySample{
				State: row.State,
				Time:  time.Unix(sec, int64(frac*1e9)).UTC(),
			})
		}
		out[entityID] = samples
	}
	return out, nil
}

// call sends one correlated request and blocks until the response, the
// timeout, or ctx cancellation. The build callback receives the allocated
// correlation id so the message and the pending entry always agree.
func (c *Client) call(ctx context.Context, build func(id int64) any, timeout time.Duration) (json.RawMessage, error) {
	if !c.Connected() {
		return nil, ErrNotConnected
	}
	id, ch := c.broker.register()
	if err := c.writeJSON(build(id)); err != nil {
		c.broker.abandon(id)
		return nil, err
	}
	return c.broker.await(ctx, id, ch, timeout)
}

func (c *Client) callTimeout() time.Duration {
	return time.Duration(c.cfg.CallTimeout) * time.Second
}
