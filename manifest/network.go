package manifest

import (
	"log/slog"
	"strconv"
	"strings"
)

// Network describes a ledger network as far as address validation is
// concerned.
type Network struct {
	ID   uint8
	Name string
	// HRP is the human-readable part embedded in every address on the
	// network, e.g. "rdx" in account_rdx1...
	HRP string
	// XRD is the address of the network's native token resource.
	XRD string
}

// Well-known networks.
var (
	Mainnet = Network{
		ID:   1,
		Name: "mainnet",
		HRP:  "rdx",
		XRD:  "resource_rdx1tknxxxxxxxxxradxrdxxxxxxxxx009923554798xxxxxxxxxradxrd",
	}
	Stokenet = Network{
		ID:   2,
		Name: "stokenet",
		HRP:  "tdx_2_",
		XRD:  "resource_tdx_2_1tknxxxxxxxxxradxrdxxxxxxxxx009923554798xxxxxxxxxtfd2jc",
	}
	Localnet = Network{
		ID:   240,
		Name: "localnet",
		HRP:  "loc",
		XRD:  "resource_loc1tknxxxxxxxxxradxrdxxxxxxxxx009923554798xxxxxxxxxsmgder",
	}
	Simulator = Network{
		ID:   242,
		Name: "simulator",
		HRP:  "sim",
		XRD:  "resource_sim1tknxxxxxxxxxradxrdxxxxxxxxx009923554798xxxxxxxxxakj8n3",
	}
)

var networks = []Network{Mainnet, Stokenet, Localnet, Simulator}

// Networks returns every known network ordered by ID.
func Networks() []Network {
	return append([]Network(nil), networks...)
}

// NetworkNames returns the names accepted by [LookupNetwork].
func NetworkNames() []string {
	names := make([]string, len(networks))
	for i, n := range networks {
		names[i] = n.Name
	}

	return names
}

// LookupNetwork finds a network by name (case-insensitive) or by decimal ID.
func LookupNetwork(key string) (Network, error) {
	key = strings.TrimSpace(key)

	for _, n := range networks {
		if strings.EqualFold(n.Name, key) {
			return n, nil
		}
	}

	if id, err := strconv.ParseUint(key, 10, 8); err == nil {
		for _, n := range networks {
			if uint64(n.ID) == id {
				return n, nil
			}
		}
	}

	return Network{}, ErrUnknownNetwork.With(slog.String("network", key))
}

// AddressMarker returns the text that separates the entity prefix from the
// payload of an address on n, e.g. "rdx1".
func (n Network) AddressMarker() string { return n.HRP + "1" }

func (n Network) String() string { return n.Name }

// UnmarshalText implements [encoding.TextUnmarshaler] using [LookupNetwork].
func (n *Network) UnmarshalText(text []byte) error {
	v, err := LookupNetwork(string(text))
	if err != nil {
		return err
	}

	*n = v

	return nil
}

// MarshalText implements [encoding.TextMarshaler], so a Network serializes
// as its name.
func (n Network) MarshalText() ([]byte, error) { return []byte(n.Name), nil }
