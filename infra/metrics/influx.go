package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/conflow/core/metrics"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/infra/logger"
)

const writeTimeout = 10 * time.Second

// InfluxSink writes preview results to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPreview writes one capacity_preview point per vehicle type.
func (s *InfluxSink) RecordPreview(ev coremetrics.PreviewEvent) error {
	points := make([]*write.Point, 0, len(model.VehicleTypes()))
	for _, vt := range model.VehicleTypes() {
		p := write.NewPointWithMeasurement("capacity_preview").
			AddTag("run_id", ev.RunID).
			AddTag("kind", ev.Kind).
			AddTag("vehicle_type", vt.String()).
			AddTag("hypothesis", strconv.FormatBool(ev.Hypothesis))
		fields := 0
		if v, ok := ev.Inbound[vt]; ok {
			p.AddField("inbound_teu", round3(v))
			fields++
		}
		if v, ok := ev.OutboundUsed[vt]; ok {
			p.AddField("outbound_used_teu", round3(v))
			fields++
		}
		if c, ok := ev.OutboundMaximum[vt]; ok {
			if teu, capped := c.TEU(); capped {
				p.AddField("maximum_teu", round3(teu))
			}
			p.AddField("uncapped", c.IsUncapped())
			fields++
		}
		if v, ok := ev.Planned[vt]; ok {
			p.AddField("planned_teu", round3(v))
			fields++
		}
		if v, ok := ev.Exceeded[vt]; ok {
			p.AddField("exceeded", v)
			fields++
		}
		if fields == 0 {
			continue
		}
		points = append(points, p.SetTime(ev.Time))
	}
	if len(points) == 0 {
		return nil
	}
	return s.write(points...)
}

// RecordFlow writes one preview_flow point per vehicle type pair.
func (s *InfluxSink) RecordFlow(ev coremetrics.FlowEvent) error {
	types := model.VehicleTypes()
	points := make([]*write.Point, 0, len(types)*len(types))
	for _, in := range types {
		for _, out := range types {
			points = append(points, write.NewPointWithMeasurement("preview_flow").
				AddTag("run_id", ev.RunID).
				AddTag("from", in.String()).
				AddTag("to", out.String()).
				AddField("teu", round3(ev.Flow[in][out])).
				SetTime(ev.Time))
		}
	}
	return s.write(points...)
}

func (s *InfluxSink) RecordPreviewFailure(ev coremetrics.PreviewFailure) error {
	p := write.NewPointWithMeasurement("preview_failure").
		AddTag("run_id", ev.RunID).
		AddTag("kind", ev.Kind).
		AddField("reason", ev.Reason).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) write(points ...*write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
