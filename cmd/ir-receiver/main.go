// Command ir-receiver samples an IR photodiode over serial, reconstructs the
// transmitted audio amplitude, and publishes session events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/ir-receiver/internal/adc"
	"github.com/sweeney/ir-receiver/internal/config"
	"github.com/sweeney/ir-receiver/internal/led"
	"github.com/sweeney/ir-receiver/internal/monitor"
	"github.com/sweeney/ir-receiver/internal/mqtt"
	sig "github.com/sweeney/ir-receiver/internal/signal"
	"github.com/sweeney/ir-receiver/internal/status"
	"github.com/sweeney/ir-receiver/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/ir-receiver.yaml", "Config file path")
	port := flag.String("port", "", "Serial port override")
	broker := flag.String("broker", "", "MQTT broker override")
	httpAddr := flag.String("http", "", "HTTP status address override (empty = from config)")
	writeConfig := flag.Bool("write-config", false, "Write default config to the config path and exit")
	listPorts := flag.Bool("list-ports", false, "List available serial ports and exit")
	printBaseline := flag.Bool("print-baseline", false, "Calibrate, print the ambient baseline, and exit")

	flag.Parse()

	if *listPorts {
		ports, err := adc.Ports()
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	if *writeConfig {
		if err := config.Default().Save(*configPath); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		log.Printf("wrote default config to %s", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *port != "" {
		cfg.Serial.Port = *port
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
	}

	if err := run(cfg, *printBaseline); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config, printBaseline bool) error {
	device, err := adc.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud)
	if err != nil {
		return fmt.Errorf("open serial: %w", err)
	}
	defer device.Close()

	if printBaseline {
		baseline, err := calibrate(device, cfg.Detection.BaselineSamples, cfg.Detection.CalibrateDelay, time.Sleep)
		if err != nil {
			return fmt.Errorf("calibrate: %w", err)
		}
		fmt.Printf("baseline: %d\n", baseline)
		return nil
	}

	var indicator led.Indicator
	if real, err := led.NewRealIndicator(cfg.LED.Chip, cfg.LED.Pin); err != nil {
		log.Printf("led unavailable, continuing without: %v", err)
		indicator = led.NewFakeIndicator()
	} else {
		indicator = real
	}
	defer indicator.Close()

	var sink monitor.Sink = monitor.NoopSink{}
	if cfg.Monitor.Enabled {
		oto, err := monitor.NewOtoSink(cfg.Sampling.RateHz)
		if err != nil {
			log.Printf("audio monitor unavailable, continuing without: %v", err)
		} else {
			sink = oto
		}
	}
	defer sink.Close()

	publisher := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		SampleRateHz:    cfg.Sampling.RateHz,
		Threshold:       cfg.Detection.Threshold,
		LossTimeout:     cfg.Detection.LossTimeout,
		BaselineSamples: cfg.Detection.BaselineSamples,
		Port:            cfg.Serial.Port,
		Broker:          cfg.MQTT.Broker,
		HTTPAddr:        cfg.HTTP.Addr,
	})

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

	recalCh := make(chan struct{}, 1)

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, recalCh)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: port=%s rate=%dHz threshold=%d loss_timeout=%d broker=%s",
		cfg.Serial.Port, cfg.Sampling.RateHz, cfg.Detection.Threshold,
		cfg.Detection.LossTimeout, cfg.MQTT.Broker)

	receiver := sig.NewReceiver(sig.Config{
		Threshold:   cfg.Detection.Threshold,
		LossTimeout: cfg.Detection.LossTimeout,
		ClampWindow: cfg.Detection.ClampWindow,
		Policy:      cfg.Policy(),
	})

	recalibrate := func() (int, error) {
		return calibrate(device, cfg.Detection.BaselineSamples, cfg.Detection.CalibrateDelay, time.Sleep)
	}

	baseline, err := recalibrate()
	if err != nil {
		return fmt.Errorf("calibrate: %w", err)
	}
	receiver.SetBaseline(baseline)
	log.Printf("calibrated: baseline=%d over %d samples", baseline, cfg.Detection.BaselineSamples)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	return runLoop(device, publisher, publisher, indicator, sink, tracker, receiver,
		loopParams{
			Interval:  cfg.SampleInterval(),
			Heartbeat: cfg.Heartbeat,
			LogEvery:  cfg.LogEvery,
		},
		time.Now, sigCh, recalCh, recalibrate)
}

// calibrate drives silence on the output, lets the sensor settle, then
// averages the configured number of ambient samples.
func calibrate(device adc.Device, samples int, settle time.Duration, sleep func(time.Duration)) (int, error) {
	if err := device.WriteLevel(sig.Silence); err != nil {
		return 0, fmt.Errorf("drive silence: %w", err)
	}
	if settle > 0 {
		sleep(settle)
	}

	cal := sig.NewCalibrator(samples)
	for !cal.Done() {
		raw, err := device.ReadSample()
		if err != nil {
			return 0, fmt.Errorf("read sample: %w", err)
		}
		cal.Add(raw)
	}
	return cal.Baseline(), nil
}

// loopParams carries the loop tuning so runLoop stays testable.
type loopParams struct {
	Interval  time.Duration
	Heartbeat time.Duration
	LogEvery  int
}

func runLoop(device adc.Device, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus,
	indicator led.Indicator, sink monitor.Sink, tracker *status.Tracker, receiver *sig.Receiver,
	lp loopParams, now func() time.Time, sigCh <-chan os.Signal, recalCh <-chan struct{},
	recalibrate func() (int, error)) error {

	startTime := now()
	sched := sig.NewScheduler(startTime, lp.Interval)
	lastHeartbeat := startTime
	ticks := 0

	doRecalibrate := func(t time.Time) {
		log.Printf("recalibrating")
		// Hold the indicator off for the whole calibration window; the
		// output is parked at silence while readings are collected.
		indicator.Set(false)
		tracker.Update(sig.StateCalibrating, receiver.Baseline(), sig.Silence, receiver.Counts())
		baseline, err := recalibrate()
		if err != nil {
			log.Printf("recalibration failed, keeping baseline %d: %v", receiver.Baseline(), err)
			indicator.Set(receiver.State() == sig.StateActive)
			tracker.Update(receiver.State(), receiver.Baseline(), receiver.LastOutput(), receiver.Counts())
			return
		}
		receiver.SetBaseline(baseline)
		// The calibration pause would otherwise queue a burst of catch-up
		// ticks; restart the deadline chain from now.
		sched = sig.NewScheduler(now(), lp.Interval)
		log.Printf("recalibrated: baseline=%d", baseline)

		event := mqtt.SystemEvent{
			Timestamp: t,
			Event:     "RECALIBRATED",
			Baseline:  baseline,
		}
		if err := publisher.PublishSystem(event); err != nil {
			log.Printf("failed to publish recalibration event: %v", err)
		}
		tracker.Update(receiver.State(), receiver.Baseline(), receiver.LastOutput(), receiver.Counts())
	}

	for {
		select {
		case s := <-sigCh:
			if s == syscall.SIGHUP {
				doRecalibrate(now())
				continue
			}
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			// Park the output at silence before exiting.
			if err := device.WriteLevel(sig.Silence); err != nil {
				log.Printf("failed to silence output: %v", err)
			}
			indicator.Set(false)

			tracker.SetMQTTConnected(mqttStatus.IsConnected())
			snap := tracker.Snapshot()
			event := mqtt.SystemEvent{
				Timestamp:  now(),
				Event:      "SHUTDOWN",
				Reason:     signalName,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-recalCh:
			doRecalibrate(now())
			continue

		default:
		}

		t := now()
		if !sched.Fire(t) {
			continue
		}

		raw, err := device.ReadSample()
		if err != nil {
			log.Printf("sample read error: %v", err)
			continue
		}

		out, events := receiver.Process(sig.Input{Raw: raw, Time: t})

		for _, event := range events {
			switch event.Type {
			case sig.EventSignalDetected:
				log.Printf("event: %s (baseline=%d deviation=%d)", event.Type, event.Baseline, event.Deviation)
				indicator.Set(true)
			case sig.EventSignalLost:
				log.Printf("event: %s (session=%v)", event.Type, event.Session)
				indicator.Set(false)
			}
			if err := publisher.Publish(event); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure
			}
		}

		if out.Write {
			if err := device.WriteLevel(out.Level); err != nil {
				log.Printf("output write error: %v", err)
			}
		}
		if err := sink.Write(receiver.LastOutput()); err != nil {
			log.Printf("monitor write error: %v", err)
		}

		ticks++
		if lp.LogEvery > 0 && ticks%lp.LogEvery == 0 {
			log.Printf("sample: raw=%d baseline=%d state=%s level=%d",
				raw, receiver.Baseline(), receiver.State(), receiver.LastOutput())
		}

		if lp.Heartbeat > 0 && t.Sub(lastHeartbeat) >= lp.Heartbeat {
			lastHeartbeat = t
			counts := receiver.Counts()
			log.Printf("heartbeat: uptime=%v detected=%d lost=%d",
				t.Sub(startTime), counts.Detected, counts.Lost)

			tracker.Update(receiver.State(), receiver.Baseline(), receiver.LastOutput(), counts)
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
			snap := tracker.Snapshot()
			hbEvent := mqtt.SystemEvent{
				Timestamp:  t,
				Event:      "HEARTBEAT",
				RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
			}
			if err := publisher.PublishSystem(hbEvent); err != nil {
				log.Printf("heartbeat publish error: %v", err)
			}
		}

		// Update status tracker for HTTP consumers
		tracker.Update(receiver.State(), receiver.Baseline(), receiver.LastOutput(), receiver.Counts())
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}
}
