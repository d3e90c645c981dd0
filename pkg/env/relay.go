package env

import (
	"fmt"
	"net/http"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"

	"github.com/robotalks/wearable/pkg/central"
	fx "github.com/robotalks/wearable/pkg/framework"
	"github.com/robotalks/wearable/pkg/relay"
	"github.com/robotalks/wearable/pkg/relay/mqtt"
)

// Relay is the relay built from the config.
type Relay struct {
	*relay.Relay
	Source *relay.Source
	Link   *Link
	Queue  *mqtt.Queue

	influx    influxdb2.Client
	dashboard *HTTPServer
}

// NewCentral opens the link and creates a central on it.
func (c *Config) NewCentral() (*central.Central, *Link, error) {
	l, err := OpenLink(c.Link)
	if err != nil {
		return nil, nil, err
	}
	return central.New(l, c.Peripheral), l, nil
}

// NewRelay creates the relay with all configured sinks.
func (c *Config) NewRelay(period int) (*Relay, error) {
	r := &Relay{Relay: relay.New()}
	if c.MQTTURL != "" {
		q, err := mqtt.NewQueueFromURL(c.MQTTURL)
		if err != nil {
			return nil, fmt.Errorf("invalid MQTT URL: %w", err)
		}
		r.Queue = q
		r.Sinks = append(r.Sinks, relay.NewMQTTSink(q))
	}
	if c.Influx.Enabled() {
		r.influx = influxdb2.NewClient(c.Influx.URL, c.Influx.Token)
		r.Sinks = append(r.Sinks, relay.NewInfluxSink(r.influx, c.Influx.Org, c.Influx.Bucket))
	}
	if c.Dashboard != "" {
		b := relay.NewBroadcaster()
		r.dashboard = NewHTTPServer(&http.Server{Addr: c.Dashboard, Handler: b.Handler()})
		r.Sinks = append(r.Sinks, b)
	}
	if len(r.Sinks) == 0 {
		return nil, fmt.Errorf("at least one sink (mqtt, influx or dashboard) is required")
	}
	cent, l, err := c.NewCentral()
	if err != nil {
		r.Close()
		return nil, err
	}
	r.Link = l
	r.Source = &relay.Source{Central: cent, Device: c.DeviceID, Period: period}
	return r, nil
}

// AddToLoop implements fx.LoopAdder.
func (r *Relay) AddToLoop(loop *fx.Loop) {
	loop.Add(r.Link, r.Relay)
	loop.AddRunnable(r.Source)
	if r.dashboard != nil {
		loop.AddRunnable(r.dashboard)
	}
}

// Connect connects the MQTT queue if configured.
func (r *Relay) Connect() error {
	if r.Queue == nil {
		return nil
	}
	token := r.Queue.Connect()
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (r *Relay) Close() error {
	errs := &fx.AggregatedError{}
	if r.Source != nil {
		errs.Add(r.Source.Central.Close())
	}
	if r.Queue != nil {
		errs.Add(r.Queue.Close())
	}
	if r.influx != nil {
		r.influx.Close()
	}
	return errs.Aggregate()
}
