// castctl is a command-line remote control for a castbridge server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/castsuite/castbridge/internal/document"
	"github.com/castsuite/castbridge/pkg/client"
)

var (
	addr     string
	password string
)

var rootCmd = &cobra.Command{
	Use:   "castctl",
	Short: "Remote control for a castbridge server",
	Long:  `castctl connects to a running castbridge instance over websocket and drives scenes, sources, streaming and recording from the command line.`,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&addr, "addr", "a", "localhost:4444", "server host:port")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "server password")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(sceneCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(shellCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect dials the server and runs the auth handshake if needed.
func connect() (*client.Client, error) {
	c := client.New()
	if err := c.Connect(addr); err != nil {
		return nil, err
	}
	if err := c.Authenticate(password); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show server and protocol version",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		info, err := c.Request("GetVersion", nil)
		if err != nil {
			return err
		}
		fmt.Printf("server %s, protocol %.1f\n",
			info.String("castbridge-version"), info.Float("version"))
		return nil
	},
}

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List scenes",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		list, err := c.Request("GetSceneList", nil)
		if err != nil {
			return err
		}
		current := list.String("current-scene")
		for _, scene := range list.Array("scenes") {
			marker := "  "
			if scene.String("name") == current {
				marker = "* "
			}
			fmt.Printf("%s%s (%d sources)\n", marker, scene.String("name"), len(scene.Array("sources")))
		}
		return nil
	},
}

var sceneCmd = &cobra.Command{
	Use:   "scene <name>",
	Short: "Switch to a scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		fields := document.New()
		fields.SetString("scene-name", args[0])
		if _, err := c.Request("SetCurrentScene", fields); err != nil {
			return err
		}
		fmt.Printf("switched to %s\n", args[0])
		return nil
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream <start|stop|status>",
	Short: "Control streaming",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		switch args[0] {
		case "start":
			_, err = c.Request("StartStreaming", nil)
		case "stop":
			_, err = c.Request("StopStreaming", nil)
		case "status":
			var status *document.Document
			status, err = c.Request("GetStreamingStatus", nil)
			if err == nil {
				fmt.Printf("streaming=%v recording=%v\n",
					status.Bool("streaming"), status.Bool("recording"))
				if tc := status.String("stream-timecode"); tc != "" {
					fmt.Printf("stream time %s\n", tc)
				}
			}
		default:
			return fmt.Errorf("unknown subcommand %q", args[0])
		}
		return err
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <start|stop>",
	Short: "Control recording",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connect()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		switch args[0] {
		case "start":
			_, err = c.Request("StartRecording", nil)
		case "stop":
			_, err = c.Request("StopRecording", nil)
		default:
			return fmt.Errorf("unknown subcommand %q", args[0])
		}
		return err
	},
}
