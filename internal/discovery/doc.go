// Package discovery finds LightControl controllers on the local network
// using multicast DNS.
//
// The controller's web server advertises an "_http._tcp" service. Scanner
// browses for those services and keeps the ones whose hostname looks like
// an ESP8266 controller (see DefaultHostPattern). Setting HostPattern to nil
// lists every HTTP service, which helps when the firmware was flashed with a
// custom hostname.
//
//	devices, err := discovery.ScanForDevices(ctx, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// In access-point mode the controller does not run mDNS; connect to its
// network and use 192.168.10.1 directly.
//
// Requires multicast on the network interface and UDP port 5353 open.
package discovery
