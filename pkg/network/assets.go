// Package network models the digital-twin enterprise network the
// attack/defense genomes are simulated against: hosts, services,
// vulnerabilities, credentials, and the directed reachability graph that
// connects them.
package network

// OSType is the operating system family a host runs.
type OSType string

const (
	OSWindows10        OSType = "windows_10"
	OSWindowsServer2019 OSType = "windows_server_2019"
	OSUbuntu22         OSType = "ubuntu_22"
	OSRHEL8            OSType = "rhel_8"
)

// HostRole is the functional role a host plays in the topology. DMZ exists
// as a distinct role alongside the segment of the same name: a host's
// segment is where it sits on the network, its role is what it does.
type HostRole string

const (
	RoleWorkstation      HostRole = "workstation"
	RoleServer           HostRole = "server"
	RoleDomainController HostRole = "domain_controller"
	RoleFirewall         HostRole = "firewall"
	RoleDatabase         HostRole = "database"
	RoleDMZ              HostRole = "dmz"
)

// PrivLevel is an ordered privilege level, lowest to highest.
type PrivLevel int

const (
	PrivNone PrivLevel = iota
	PrivUser
	PrivAdmin
	PrivSystem
)

func (p PrivLevel) String() string {
	switch p {
	case PrivNone:
		return "none"
	case PrivUser:
		return "user"
	case PrivAdmin:
		return "admin"
	case PrivSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Service is a network service exposed by a host.
type Service struct {
	Name    string
	Port    int
	Version string
	Exposed bool
}

// Vulnerability is a weakness present on a host that enables one attack
// technique until it is exploited.
type Vulnerability struct {
	CVEID            string
	CVSSScore        float64
	TechniqueEnables string
	Exploited        bool
}

// Credential is a set of authentication material valid on a known set of
// hosts.
type Credential struct {
	ID          string
	Username    string
	Privilege   PrivLevel
	ValidOn     []string
	Compromised bool
}

// Host is one machine in the digital twin.
type Host struct {
	ID                 string
	Hostname           string
	OS                 OSType
	Role               HostRole
	Criticality        float64
	Services           []Service
	Vulnerabilities    []Vulnerability
	InstalledSoftware  []string
	IsCompromised      bool
	PrivilegeLevel     PrivLevel
	HasCredentialCache bool
	Segment            string
	HighValueData      bool
	DataStaged          bool
}

// HasService reports whether the host runs a named service.
func (h *Host) HasService(name string) bool {
	for _, s := range h.Services {
		if s.Name == name {
			return true
		}
	}
	return false
}

// VulnerabilityFor returns the unexploited vulnerability enabling the given
// technique, if any.
func (h *Host) VulnerabilityFor(techniqueID string) *Vulnerability {
	for i := range h.Vulnerabilities {
		v := &h.Vulnerabilities[i]
		if v.TechniqueEnables == techniqueID && !v.Exploited {
			return v
		}
	}
	return nil
}

// IsWindows reports whether the host's OS family is Windows.
func (h *Host) IsWindows() bool {
	return h.OS == OSWindows10 || h.OS == OSWindowsServer2019
}

// IsLinux reports whether the host's OS family is Linux.
func (h *Host) IsLinux() bool {
	return h.OS == OSUbuntu22 || h.OS == OSRHEL8
}

// Clone returns a deep copy of the host so that per-match simulation state
// never mutates the shared topology template.
func (h *Host) Clone() *Host {
	clone := *h
	clone.Services = append([]Service(nil), h.Services...)
	clone.Vulnerabilities = append([]Vulnerability(nil), h.Vulnerabilities...)
	clone.InstalledSoftware = append([]string(nil), h.InstalledSoftware...)
	return &clone
}

// WorkstationOpts configures Workstation beyond its required
// positional arguments.
type WorkstationOpts struct {
	OS                 OSType
	Criticality        float64
	Segment            string
	Vulnerabilities    []Vulnerability
	HasCredentialCache bool
}

// DefaultWorkstationOpts mirrors the reference factory's keyword defaults.
func DefaultWorkstationOpts() WorkstationOpts {
	return WorkstationOpts{
		OS:                 OSWindows10,
		Criticality:        0.2,
		Segment:            "user",
		HasCredentialCache: true,
	}
}

// Workstation builds a standard end-user workstation host.
func Workstation(id, hostname string, opts WorkstationOpts) *Host {
	return &Host{
		ID:          id,
		Hostname:    hostname,
		OS:          opts.OS,
		Role:        RoleWorkstation,
		Criticality: opts.Criticality,
		Services: []Service{
			{Name: "smb", Port: 445, Version: "3.1.1"},
			{Name: "rdp", Port: 3389, Version: "10.0"},
		},
		Vulnerabilities:    opts.Vulnerabilities,
		InstalledSoftware:  []string{"office", "browser", "email_client"},
		HasCredentialCache: opts.HasCredentialCache,
		Segment:            opts.Segment,
	}
}

// ServerOpts configures Server beyond its required positional
// arguments.
type ServerOpts struct {
	OS                 OSType
	Role               HostRole
	Criticality        float64
	Services           []Service
	Segment            string
	Vulnerabilities    []Vulnerability
	HasCredentialCache bool
}

// DefaultServerOpts mirrors the reference factory's keyword defaults.
func DefaultServerOpts() ServerOpts {
	return ServerOpts{
		OS:                 OSWindowsServer2019,
		Role:               RoleServer,
		Criticality:        0.5,
		Segment:            "server",
		HasCredentialCache: true,
	}
}

// Server builds a generic server host.
func Server(id, hostname string, opts ServerOpts) *Host {
	services := opts.Services
	if services == nil {
		services = []Service{
			{Name: "smb", Port: 445, Version: "3.1.1"},
			{Name: "rdp", Port: 3389, Version: "10.0"},
		}
	}
	return &Host{
		ID:                 id,
		Hostname:           hostname,
		OS:                 opts.OS,
		Role:               opts.Role,
		Criticality:        opts.Criticality,
		Services:           services,
		Vulnerabilities:    opts.Vulnerabilities,
		HasCredentialCache: opts.HasCredentialCache,
		Segment:            opts.Segment,
	}
}

// DomainController builds the single domain controller host.
func DomainController(id, hostname string, criticality float64, segment string) *Host {
	return &Host{
		ID:          id,
		Hostname:    hostname,
		OS:          OSWindowsServer2019,
		Role:        RoleDomainController,
		Criticality: criticality,
		Services: []Service{
			{Name: "ldap", Port: 389},
			{Name: "kerberos", Port: 88},
			{Name: "smb", Port: 445, Version: "3.1.1"},
			{Name: "dns", Port: 53},
			{Name: "rdp", Port: 3389, Version: "10.0"},
		},
		HasCredentialCache: true,
		Segment:            segment,
		HighValueData:      true,
	}
}

// DatabaseServer builds the database server host.
func DatabaseServer(id, hostname string, criticality float64, segment string) *Host {
	return &Host{
		ID:          id,
		Hostname:    hostname,
		OS:          OSWindowsServer2019,
		Role:        RoleDatabase,
		Criticality: criticality,
		Services: []Service{
			{Name: "sql", Port: 1433, Version: "2019"},
			{Name: "smb", Port: 445, Version: "3.1.1"},
			{Name: "rdp", Port: 3389, Version: "10.0"},
		},
		HasCredentialCache: true,
		Segment:            segment,
		HighValueData:      true,
	}
}

// Firewall builds a perimeter firewall host.
func Firewall(id, hostname string, criticality float64, segment string) *Host {
	return &Host{
		ID:          id,
		Hostname:    hostname,
		OS:          OSRHEL8,
		Role:        RoleFirewall,
		Criticality: criticality,
		Services: []Service{
			{Name: "ssh", Port: 22, Version: "8.9"},
		},
		Segment: segment,
	}
}
