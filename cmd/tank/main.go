package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"log"
	"os"

	"pixel-tank/internal/console"
	"pixel-tank/internal/game"
	"pixel-tank/internal/layout"
	"pixel-tank/internal/server"
)

const (
	defaultAddr    = ":2222"
	hostKeyPath    = "host_key"
	layoutPath     = "assets/tank.json"
	consoleLogPath = "tank.log"
)

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)

	useConsole := os.Getenv("TANK_CONSOLE") == "1"
	useSSH := os.Getenv("TANK_SSH") != "0"
	if !useConsole && !useSSH {
		log.Fatalf("Nothing to display: set TANK_CONSOLE=1 or leave SSH enabled")
	}

	// The console owns the terminal, so logs go to a file instead.
	if useConsole {
		f, err := os.OpenFile(consoleLogPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	path := layoutPath
	if p := os.Getenv("TANK_LAYOUT"); p != "" {
		path = p
	}
	tankLayout, err := layout.Load(path)
	if err != nil {
		log.Printf("Could not load layout from %s: %v, using default tank", path, err)
		tankLayout = layout.Default()
	}
	log.Printf("Layout: %s (%s, %d icons)", tankLayout.Name, tankLayout.Extent(), len(tankLayout.Icons))

	scene, err := tankLayout.BuildScene()
	if err != nil {
		log.Fatalf("Failed to build tank: %v", err)
	}

	loop := game.NewLoop(scene)

	quitCh := make(chan struct{})
	if useConsole {
		scr, err := console.Open()
		if err != nil {
			log.Fatalf("Console error: %v", err)
		}
		defer scr.Close()
		loop.AddSink(scr)
		go scr.Pump(loop.InputChan(), quitCh)
	}

	go loop.Run()
	defer loop.Stop()

	errCh := make(chan error, 1)
	if useSSH {
		if err := ensureHostKey(hostKeyPath); err != nil {
			log.Fatalf("Host key error: %v", err)
		}

		listenAddr := defaultAddr
		if port := os.Getenv("PORT"); port != "" {
			listenAddr = ":" + port
		}
		sshServer := server.NewSSHServer(listenAddr, hostKeyPath, loop, tankLayout.Name)
		log.Printf("Starting pixel tank, connect with: ssh -t -p %s YourName@localhost", listenAddr[1:])
		go func() { errCh <- sshServer.Start() }()
	}

	select {
	case <-quitCh:
		log.Printf("Console closed, shutting down")
	case err := <-errCh:
		log.Printf("SSH server error: %v", err)
	}
}

func ensureHostKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // key already exists
	}

	log.Println("Generating new host key...")
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pem.Encode(f, pemBlock)
}
