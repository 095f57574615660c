// Package telemetry ships waypoint placement and removal events to
// InfluxDB. Writes are asynchronous and batched by the client.
package telemetry

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/maltiez2/vsmod-mapmarkers/marker"
)

// Manager handles the InfluxDB connection and event writes. A manager
// without a healthy connection drops events silently.
type Manager struct {
	client influxdb2.Client
	writer influxdb2_api.WriteAPI
	valid  bool
	log    zerolog.Logger
}

// NewManager connects to InfluxDB using the influx.* config keys.
// When influx.enabled is false or the server cannot be reached, the
// returned manager is inert.
func NewManager(log zerolog.Logger) *Manager {
	m := &Manager{log: log}

	if !viper.GetBool("influx.enabled") {
		return m
	}

	m.client = influxdb2.NewClientWithOptions(
		viper.GetString("influx.url"),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := m.client.Ping(context.Background())
	if err != nil || !running {
		log.Warn().Err(err).Str("url", viper.GetString("influx.url")).
			Msg("influxdb unreachable, telemetry disabled")
		m.client.Close()
		m.client = nil
		return m
	}

	m.writer = m.client.WriteAPI(viper.GetString("influx.org"), viper.GetString("influx.bucket"))
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.log.Error().Err(writeErr).Msg("error sending data to influxdb")
		}
	}(m.writer.Errors())

	m.valid = true
	log.Info().Str("bucket", viper.GetString("influx.bucket")).
		Msg("influxdb telemetry initialized")
	return m
}

// RecordPlacement reports a stored waypoint.
func (m *Manager) RecordPlacement(playerID string, wp marker.Waypoint) {
	m.write("waypoint_placements", playerID, wp)
}

// RecordRemoval reports a deleted waypoint.
func (m *Manager) RecordRemoval(playerID string, wp marker.Waypoint) {
	m.write("waypoint_removals", playerID, wp)
}

func (m *Manager) write(measurement, playerID string, wp marker.Waypoint) {
	if !m.valid {
		return
	}
	point := influxdb2.NewPointWithMeasurement(measurement).
		AddTag("icon", wp.Icon).
		AddField("player", playerID).
		AddField("title", wp.Title).
		AddField("x", wp.Position.X).
		AddField("z", wp.Position.Z).
		SetTime(time.Now())
	m.writer.WritePoint(point)
}

// Close flushes pending writes and shuts the client down.
func (m *Manager) Close() {
	if m.client != nil {
		m.client.Close()
	}
}
