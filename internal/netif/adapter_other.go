//go:build !windows

package netif

// AdapterIDs is only meaningful on Windows, where pcap device names are
// derived from adapter GUIDs.
func AdapterIDs() (map[int]string, error) {
	return nil, nil
}
