package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/robotalks/wearable/pkg/relay/mqtt"
	"github.com/robotalks/wearable/pkg/relay/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/wearable/"
)

func init() {
	if val := os.Getenv("WEARABLE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	defer q.Close()

	q.Sub("+/telemetry", mqtt.Handler(func(topic string, payload []byte) {
		msg, err := msgs.DecodeRecordMsg(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		log.Printf("%s: epoch=%d magnitude=%d latency=%v", topic,
			msg.Epoch, msg.Magnitude, time.Since(msg.ReceivedAt()))
	}))
	<-(chan struct{})(nil)
}
