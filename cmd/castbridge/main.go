package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/castsuite/castbridge/config"
	"github.com/castsuite/castbridge/internal/document"
	"github.com/castsuite/castbridge/internal/studio"
	websocket "github.com/castsuite/castbridge/internal/ws"
)

func main() {
	configPath := flag.String("config", "castbridge.yml", "Path to settings file")
	password := flag.String("password", "", "Set a new password and enable authentication")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Failed to load config: %v, using defaults", err)
		cfg = config.Default()
	}

	if *password != "" {
		if err := cfg.SetPassword(*password); err != nil {
			log.Fatalf("Failed to set password: %v", err)
		}
		if err := cfg.Save(); err != nil {
			log.Printf("Failed to save config: %v", err)
		}
	}

	st := studio.New()
	seedStudio(st)

	server := websocket.NewServer(cfg, st)
	if !cfg.ServerEnabled() {
		log.Println("Server is disabled in settings, exiting")
		return
	}
	if err := server.Start(cfg.ServerPort()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down")
	st.Shutdown()
	server.Stop()
}

// seedStudio creates a minimal scene layout so a freshly started instance
// has something to drive.
func seedStudio(st *studio.Studio) {
	cameraSettings := document.New()
	cameraSettings.SetString("device", "/dev/video0")
	st.AddSource("Camera", "v4l2_input", cameraSettings)

	micSettings := document.New()
	micSettings.SetString("device", "default")
	st.AddSource("Microphone", "pulse_input_capture", micSettings)

	overlaySettings := document.New()
	overlaySettings.SetString("file", "overlay.png")
	st.AddSource("Overlay", "image_source", overlaySettings)

	st.AddScene("Main")
	st.AddScene("Standby")

	for _, source := range []string{"Camera", "Microphone", "Overlay"} {
		if err := st.AddSceneItem("Main", source); err != nil {
			log.Printf("Failed to seed scene item %s: %v", source, err)
		}
	}
	if err := st.AddSceneItem("Standby", "Overlay"); err != nil {
		log.Printf("Failed to seed scene item Overlay: %v", err)
	}

	if err := st.SetCurrentScene("Main"); err != nil {
		log.Printf("Failed to select initial scene: %v", err)
	}
}
