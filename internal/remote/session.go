package remote

import "os"

// sessionMarkers are the environment variables that indicate the process
// is running inside an SSH session rather than a local desktop.
var sessionMarkers = []string{"SSH_CONNECTION", "SSH_CLIENT", "SSH_TTY"}

// IsRemoteSession reports whether this process appears to be running over
// SSH. Used only to decide whether to print the port-forwarding hint
// before a browser-based authorization flow.
func IsRemoteSession() bool {
	for _, name := range sessionMarkers {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// PortForwardHint explains how to reach rclone's local OAuth listener
// (port 53682) from the machine with the browser.
const PortForwardHint = `This looks like an SSH session. rclone's authorization flow listens on
localhost:53682, so forward it from the machine with your browser first:

    ssh -L 53682:localhost:53682 <user>@<this-host>

then open the printed link there.`
