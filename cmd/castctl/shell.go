package main

import (
	"fmt"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/castsuite/castbridge/internal/document"
	"github.com/castsuite/castbridge/pkg/client"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive shell sending raw requests",
	Long: `Opens an interactive prompt. Each line is a request type optionally
followed by key=value pairs, for example:

  SetCurrentScene scene-name=Main
  SetVolume source=Microphone volume=0.5

Server events are printed as they arrive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		go printEvents(c)

		line := liner.NewLiner()
		defer func() { _ = line.Close() }()
		line.SetCtrlCAborts(true)

		fmt.Println("Connected. Type a request name, 'help' or 'quit'.")
		for {
			input, err := line.Prompt("castctl> ")
			if err != nil {
				return nil
			}
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			line.AppendHistory(input)

			switch input {
			case "quit", "exit", "q":
				return nil
			case "help":
				printShellHelp(c)
				continue
			}

			if err := runShellRequest(c, input); err != nil {
				fmt.Println(err)
			}
		}
	},
}

func printEvents(c *client.Client) {
	for event := range c.Events() {
		fmt.Printf("\n<< %s\n", event.JSON())
	}
}

func printShellHelp(c *client.Client) {
	info, err := c.Request("GetVersion", nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Available requests:")
	for _, name := range strings.Split(info.String("available-requests"), ",") {
		fmt.Printf("  %s\n", name)
	}
}

// runShellRequest parses "RequestType key=value ..." and prints the
// response. Values that look like numbers or booleans are sent typed.
func runShellRequest(c *client.Client, input string) error {
	parts := strings.Fields(input)
	requestType := parts[0]

	fields := document.New()
	for _, part := range parts[1:] {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return fmt.Errorf("expected key=value, got %q", part)
		}
		setTyped(fields, key, value)
	}

	response, err := c.Request(requestType, fields)
	if err != nil {
		return err
	}
	fmt.Printf(">> %s\n", response.JSON())
	return nil
}

func setTyped(fields *document.Document, key, value string) {
	switch value {
	case "true":
		fields.SetBool(key, true)
		return
	case "false":
		fields.SetBool(key, false)
		return
	}

	var i int64
	if _, err := fmt.Sscanf(value, "%d", &i); err == nil && fmt.Sprintf("%d", i) == value {
		fields.SetInt(key, i)
		return
	}
	var f float64
	if _, err := fmt.Sscanf(value, "%g", &f); err == nil && strings.ContainsAny(value, ".eE") {
		fields.SetFloat(key, f)
		return
	}
	fields.SetString(key, value)
}
