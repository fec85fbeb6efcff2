package types

import "net"

// Metadata identifies the sender of a received datagram.
type Metadata struct {
	Address net.IP
	Port    int
}

// Packet is one received datagram payload together with its sender metadata.
// Payload bytes are exactly as delivered by the OS, capped to the configured
// receive buffer size.
type Packet struct {
	Payload []byte
	Meta    Metadata
}
