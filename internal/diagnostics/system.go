package diagnostics

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// maxHostIPs caps the host address list for hosts with many bridges or VPNs.
const maxHostIPs = 10

// hostIPAddresses returns private IPv4 addresses, the capture interface's
// first when it has one.
func hostIPAddresses(captureInterface string) []string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil
	}

	var ips []string
	seen := make(map[string]bool)
	add := func(iface net.Interface) {
		addrs, _ := iface.Addrs()
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipnet.IP.To4()
			if ip == nil || !ip.IsPrivate() || seen[ip.String()] || len(ips) >= maxHostIPs {
				continue
			}
			seen[ip.String()] = true
			ips = append(ips, ip.String())
		}
	}

	if captureInterface != "" {
		for _, iface := range interfaces {
			if iface.Name == captureInterface && iface.Flags&net.FlagUp != 0 {
				add(iface)
			}
		}
	}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		add(iface)
	}
	return ips
}

func systemInfo(captureInterface string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "OS: %s\nArch: %s\nGo version: %s\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
	fmt.Fprintf(&b, "NumCPU: %d\nGOMAXPROCS: %d\n", runtime.NumCPU(), runtime.GOMAXPROCS(0))
	if hn, err := os.Hostname(); err == nil {
		b.WriteString("Hostname: " + hn + "\n")
	}
	if ips := hostIPAddresses(captureInterface); len(ips) > 0 {
		b.WriteString("Host IPs: " + strings.Join(ips, ",") + "\n")
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Fprintf(&b, "Memory: Alloc=%d TotalAlloc=%d Sys=%d NumGC=%d\n", m.Alloc, m.TotalAlloc, m.Sys, m.NumGC)

	switch runtime.GOOS {
	case "linux":
		if f, err := os.Open("/etc/os-release"); err == nil {
			defer f.Close()
			b.WriteString("/etc/os-release:\n")
			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := scanner.Text()
				if strings.HasPrefix(line, "NAME=") || strings.HasPrefix(line, "VERSION=") || strings.HasPrefix(line, "PRETTY_NAME=") {
					b.WriteString("  " + line + "\n")
				}
			}
		}
		if out, err := exec.Command("uname", "-r").Output(); err == nil {
			b.WriteString("Kernel: " + strings.TrimSpace(string(out)) + "\n")
		}
	case "darwin":
		if out, err := exec.Command("sw_vers").Output(); err == nil {
			b.WriteString("sw_vers:\n")
			b.WriteString(string(out))
		}
	case "windows":
		if out, err := exec.Command("cmd", "/C", "ver").Output(); err == nil {
			b.WriteString("ver: " + strings.TrimSpace(string(out)) + "\n")
		}
	}
	return b.String()
}
