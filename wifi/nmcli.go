// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package wifi

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// NMCLI is a Radio driven through NetworkManager's command line client.
type NMCLI struct {
	// Interface is the wireless device, e.g. "wlan0".
	Interface string
	// Path of the nmcli binary; "nmcli" when empty.
	Path string

	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Join implements Radio.
func (n *NMCLI) Join(ctx context.Context, ssid, psk string) error {
	args := []string{"--wait", "0", "device", "wifi", "connect", ssid}
	if psk != "" {
		args = append(args, "password", psk)
	}
	if n.Interface != "" {
		args = append(args, "ifname", n.Interface)
	}
	// Leave switches the radio off.
	if _, err := n.exec(ctx, "radio", "wifi", "on"); err != nil {
		return err
	}
	_, err := n.exec(ctx, args...)
	return err
}

// Leave implements Radio.
func (n *NMCLI) Leave(ctx context.Context) error {
	_, err := n.exec(ctx, "radio", "wifi", "off")
	return err
}

// Associated implements Radio.
func (n *NMCLI) Associated(ctx context.Context) (bool, error) {
	out, err := n.exec(ctx, "-t", "-f", "DEVICE,TYPE,STATE", "device", "status")
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(string(out), "\n") {
		f := strings.Split(line, ":")
		if len(f) != 3 || f[1] != "wifi" {
			continue
		}
		if n.Interface != "" && f[0] != n.Interface {
			continue
		}
		if f[2] == "connected" {
			return true, nil
		}
	}
	return false, nil
}

func (n *NMCLI) exec(ctx context.Context, args ...string) ([]byte, error) {
	path := n.Path
	if path == "" {
		path = "nmcli"
	}
	if n.run != nil {
		return n.run(ctx, path, args...)
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", path, strings.Join(args[:min(len(args), 3)], " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

var _ Radio = (*NMCLI)(nil)
