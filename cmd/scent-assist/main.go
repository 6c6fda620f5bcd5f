// Command scent-assist watches a motion sensor and drives an exhaust fan
// relay after a qualified detection, publishing transitions to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stanley/scent-assist/internal/gpio"
	"github.com/stanley/scent-assist/internal/logic"
	"github.com/stanley/scent-assist/internal/mqtt"
	"github.com/stanley/scent-assist/internal/status"
	"github.com/stanley/scent-assist/internal/web"
)

func main() {
	poll := flag.Duration("poll", 50*time.Millisecond, "GPIO polling interval")
	delay := flag.Duration("delay", 5*time.Minute, "Delay between detection and fan activation")
	runTime := flag.Duration("run", 2*time.Minute, "Fan run duration")
	lockout := flag.Duration("lockout", 3*time.Minute, "Re-detection lockout after a detection")
	blind := flag.Duration("blind", 30*time.Second, "Motion blind period after the fan stops")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	pinMotion := flag.Int("pin-motion", gpio.DefaultPinMotion, "BCM pin number for the motion sensor")
	pinButton := flag.Int("pin-button", gpio.DefaultPinButton, "BCM pin number for the pushbutton")
	pinRelay := flag.Int("pin-relay", gpio.DefaultPinRelay, "BCM pin number for the fan relay")
	pinLED := flag.Int("pin-led", gpio.DefaultPinLED, "BCM pin number for the status LED")
	pinActivity := flag.Int("pin-activity", gpio.DefaultPinActivity, "BCM pin number for the activity LED")
	printState := flag.Bool("print-state", false, "Print current inputs and exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	flag.Parse()

	cfg := logic.DefaultConfig()
	cfg.DelayTime = uint32(delay.Milliseconds())
	cfg.RunTime = uint32(runTime.Milliseconds())
	cfg.RedetectLockout = uint32(lockout.Milliseconds())
	cfg.MotionBlind = uint32(blind.Milliseconds())

	ws := resolveWSBroker(*wsBroker, *broker)
	pins := pinConfig{
		motion:   *pinMotion,
		button:   *pinButton,
		relay:    *pinRelay,
		led:      *pinLED,
		activity: *pinActivity,
	}
	if err := run(*poll, cfg, *broker, *heartbeat, pins, *printState, *httpAddr, ws); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

type pinConfig struct {
	motion   int
	button   int
	relay    int
	led      int
	activity int
}

func run(poll time.Duration, cfg logic.Config, broker string, heartbeat time.Duration, pins pinConfig, printState bool, httpAddr, wsBroker string) error {
	// Initialize GPIO
	reader, err := gpio.NewRealReader(pins.motion, pins.button)
	if err != nil {
		return fmt.Errorf("init gpio inputs: %w", err)
	}
	defer reader.Close()

	// Print state mode
	if printState {
		motion, button, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("motion: %d, button: %s\n", motion, stateString(button))
		return nil
	}

	writer, err := gpio.NewRealWriter(pins.relay, pins.led, pins.activity)
	if err != nil {
		return fmt.Errorf("init gpio outputs: %w", err)
	}
	defer writer.Close()

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		DelayMs:     int64(cfg.DelayTime),
		RunMs:       int64(cfg.RunTime),
		Broker:      broker,
		HTTPPort:    httpAddr,
		WSBroker:    wsBroker,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: poll=%v delay=%dms run=%dms broker=%s heartbeat=%v",
		poll, cfg.DelayTime, cfg.RunTime, broker, heartbeat)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, writer, publisher, publisher, tracker, cfg, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(reader gpio.Reader, writer gpio.Writer, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, cfg logic.Config, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	controller := logic.NewController(cfg)
	lastHeartbeat := startTime

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			// Leave the fan and LEDs off on the way out.
			if err := writer.SetRelay(false); err != nil {
				log.Printf("relay off error: %v", err)
			}
			writer.SetStatusLED(false)
			writer.SetActivityLED(false)
			return nil

		case <-tick:
			t := now()
			motion, button, err := reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			millis := uint32(t.Sub(startTime).Milliseconds())
			out, events := controller.Tick(millis, logic.Input{
				Motion: motion,
				Button: button,
			})

			if err := writer.SetRelay(out.Relay); err != nil {
				log.Printf("relay write error: %v", err)
			}
			if err := writer.SetStatusLED(out.StatusLED); err != nil {
				log.Printf("status led write error: %v", err)
			}
			if err := writer.SetActivityLED(out.ActivityLED); err != nil {
				log.Printf("activity led write error: %v", err)
			}

			for _, event := range events {
				log.Printf("event: %s (relay=%s state=%s manual=%t)",
					event.Type, stateString(out.Relay), controller.State(), event.Manual)
				fe := mqtt.FanEvent{
					Timestamp: t,
					Type:      event.Type,
					Manual:    event.Manual,
					Relay:     out.Relay,
					State:     controller.State(),
				}
				if err := publisher.Publish(fe); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(controller.State(), controller.FanRunning(),
					controller.MotionConfirmed(), controller.Timers(), controller.Counts())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			// Check for heartbeat
			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				counts := controller.Counts()
				log.Printf("heartbeat: uptime=%v motion=%d armed=%d fan_on=%d fan_off=%d",
					t.Sub(startTime).Truncate(time.Second),
					counts.MotionConfirmed, counts.DelayArmed, counts.FanOn, counts.FanOff)

				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func stateString(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
