//go:build windows

package netif

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// AdapterIDs maps interface indexes to adapter GUIDs such as
// "{4D36E972-E325-11CE-BFC1-08002BE10318}".
func AdapterIDs() (map[int]string, error) {
	aa, err := adapterAddresses()
	if err != nil {
		return nil, err
	}
	ids := make(map[int]string)
	for ; aa != nil; aa = aa.Next {
		id := windows.BytePtrToString(aa.AdapterName)
		if aa.IfIndex != 0 {
			ids[int(aa.IfIndex)] = id
		}
		if aa.Ipv6IfIndex != 0 {
			ids[int(aa.Ipv6IfIndex)] = id
		}
	}
	return ids, nil
}

func adapterAddresses() (*windows.IpAdapterAddresses, error) {
	size := uint32(15000)
	for attempt := 0; attempt < 3; attempt++ {
		buf := make([]byte, size)
		aa := (*windows.IpAdapterAddresses)(unsafe.Pointer(&buf[0]))
		err := windows.GetAdaptersAddresses(windows.AF_UNSPEC, windows.GAA_FLAG_INCLUDE_PREFIX, 0, aa, &size)
		if err == nil {
			return aa, nil
		}
		if !errors.Is(err, windows.ERROR_BUFFER_OVERFLOW) {
			return nil, fmt.Errorf("failed to list adapters: %w", err)
		}
	}
	return nil, errors.New("failed to list adapters: buffer kept growing")
}
