package network

import (
	"encoding/json"
	"fmt"
	"os"
)

// CorporateMedium builds the standard 25-host corporate network digital
// twin: a DMZ, a user segment, an IT/admin segment, a server segment, a
// restricted segment, and an external internet sentinel, wired together
// with the same reachability and credential-placement pattern a mid-size
// enterprise network review would turn up.
func CorporateMedium() *Graph {
	g := NewGraph()

	webSrv := &Host{
		ID: "dmz-web-01", Hostname: "web-server", OS: OSUbuntu22, Role: RoleServer,
		Criticality: 0.3,
		Services: []Service{
			{Name: "http", Port: 80, Version: "nginx/1.24", Exposed: true},
			{Name: "https", Port: 443, Version: "nginx/1.24", Exposed: true},
			{Name: "ssh", Port: 22, Version: "8.9"},
		},
		Vulnerabilities: []Vulnerability{
			{CVEID: "CVE-2023-44487", CVSSScore: 7.5, TechniqueEnables: "T1190"},
		},
		Segment: "dmz",
	}
	mailSrv := &Host{
		ID: "dmz-mail-01", Hostname: "mail-server", OS: OSUbuntu22, Role: RoleServer,
		Criticality: 0.3,
		Services: []Service{
			{Name: "smtp", Port: 25, Version: "postfix/3.7", Exposed: true},
			{Name: "imap", Port: 993, Version: "dovecot/2.3", Exposed: true},
			{Name: "ssh", Port: 22, Version: "8.9"},
		},
		Segment: "dmz",
	}
	vpnGW := &Host{
		ID: "dmz-vpn-01", Hostname: "vpn-gateway", OS: OSRHEL8, Role: RoleServer,
		Criticality: 0.3,
		Services: []Service{
			{Name: "vpn", Port: 1194, Version: "openvpn/2.6", Exposed: true},
			{Name: "ssh", Port: 22, Version: "8.2"},
		},
		Segment: "dmz",
	}
	for _, h := range []*Host{webSrv, mailSrv, vpnGW} {
		g.AddHost(h)
	}

	for i := 1; i <= 8; i++ {
		var vulns []Vulnerability
		if i == 3 || i == 6 {
			vulns = []Vulnerability{
				{CVEID: fmt.Sprintf("CVE-2023-2868%d", i), CVSSScore: 7.8, TechniqueEnables: "T1068"},
			}
		}
		opts := DefaultWorkstationOpts()
		opts.Criticality = 0.15
		opts.Vulnerabilities = vulns
		g.AddHost(Workstation(fmt.Sprintf("usr-ws-%02d", i), fmt.Sprintf("user-ws-%d", i), opts))
	}

	for i := 1; i <= 3; i++ {
		opts := DefaultWorkstationOpts()
		opts.Criticality = 0.4
		opts.Segment = "it"
		g.AddHost(Workstation(fmt.Sprintf("it-ws-%02d", i), fmt.Sprintf("it-admin-ws-%d", i), opts))
	}

	g.AddHost(DomainController("srv-dc-01", "corp-dc-01", 1.0, "server"))

	fileOpts := DefaultServerOpts()
	fileOpts.Criticality = 0.5
	fileOpts.Services = []Service{
		{Name: "smb", Port: 445, Version: "3.1.1"},
		{Name: "rdp", Port: 3389, Version: "10.0"},
	}
	g.AddHost(Server("srv-file-01", "file-server", fileOpts))

	appOpts := DefaultServerOpts()
	appOpts.Criticality = 0.6
	appOpts.Services = []Service{
		{Name: "http", Port: 8080, Version: "tomcat/10.1"},
		{Name: "smb", Port: 445, Version: "3.1.1"},
		{Name: "rdp", Port: 3389, Version: "10.0"},
	}
	appOpts.Vulnerabilities = []Vulnerability{
		{CVEID: "CVE-2024-1001", CVSSScore: 8.1, TechniqueEnables: "T1210"},
	}
	g.AddHost(Server("srv-app-01", "app-server", appOpts))

	g.AddHost(DatabaseServer("srv-db-01", "database-server", 0.9, "server"))

	backupOpts := DefaultServerOpts()
	backupOpts.Criticality = 0.9
	backupOpts.OS = OSUbuntu22
	backupOpts.Services = []Service{
		{Name: "ssh", Port: 22, Version: "8.9"},
		{Name: "smb", Port: 445, Version: "4.18"},
	}
	g.AddHost(Server("srv-backup-01", "backup-server", backupOpts))

	for i := 1; i <= 2; i++ {
		opts := DefaultWorkstationOpts()
		opts.Criticality = 0.6
		opts.Segment = "restricted"
		g.AddHost(Workstation(fmt.Sprintf("rst-exec-%02d", i), fmt.Sprintf("exec-ws-%d", i), opts))
	}

	hrOpts := DefaultServerOpts()
	hrOpts.Criticality = 0.95
	hrOpts.Segment = "restricted"
	hrOpts.Services = []Service{
		{Name: "http", Port: 443, Version: "iis/10.0"},
		{Name: "smb", Port: 445, Version: "3.1.1"},
		{Name: "rdp", Port: 3389, Version: "10.0"},
	}
	hrSrv := Server("rst-hr-01", "hr-server", hrOpts)
	hrSrv.HighValueData = true
	g.AddHost(hrSrv)

	g.AddHost(&Host{ID: "external", Hostname: "internet", OS: OSUbuntu22, Role: RoleServer, Criticality: 0.0, Segment: "external"})

	for _, dmzID := range []string{"dmz-web-01", "dmz-mail-01", "dmz-vpn-01"} {
		g.AddEdge("external", dmzID, []string{"http", "https", "smtp", "vpn"}, false)
	}
	g.AddEdge("dmz-web-01", "usr-ws-01", []string{"http"}, false)
	g.AddEdge("dmz-vpn-01", "it-ws-01", []string{"rdp", "ssh"}, false)

	for i := 1; i <= 8; i++ {
		uid := fmt.Sprintf("usr-ws-%02d", i)
		g.AddEdge(uid, "srv-file-01", []string{"smb"}, false)
		g.AddEdge(uid, "srv-app-01", []string{"http"}, false)
		g.AddEdge(uid, "srv-dc-01", []string{"ldap", "kerberos"}, false)
		for j := 1; j <= 8; j++ {
			if i != j {
				g.AddEdge(uid, fmt.Sprintf("usr-ws-%02d", j), []string{"smb"}, false)
			}
		}
	}

	allInternal := []string{}
	for i := 1; i <= 8; i++ {
		allInternal = append(allInternal, fmt.Sprintf("usr-ws-%02d", i))
	}
	allInternal = append(allInternal, "srv-dc-01", "srv-file-01", "srv-app-01", "srv-db-01", "srv-backup-01")
	allInternal = append(allInternal, "rst-exec-01", "rst-exec-02", "rst-hr-01")
	allInternal = append(allInternal, "dmz-web-01", "dmz-mail-01", "dmz-vpn-01")

	for i := 1; i <= 3; i++ {
		itID := fmt.Sprintf("it-ws-%02d", i)
		for _, target := range allInternal {
			if target != itID {
				g.AddEdge(itID, target, []string{"rdp", "ssh", "smb"}, false)
			}
		}
		for j := 1; j <= 3; j++ {
			if i != j {
				g.AddEdge(itID, fmt.Sprintf("it-ws-%02d", j), []string{"rdp", "ssh", "smb"}, false)
			}
		}
		g.AddEdge(itID, "srv-dc-01", []string{"ldap", "kerberos", "rdp", "smb"}, false)
	}

	serverIDs := []string{"srv-dc-01", "srv-file-01", "srv-app-01", "srv-db-01", "srv-backup-01"}
	for _, s1 := range serverIDs {
		for _, s2 := range serverIDs {
			if s1 != s2 {
				g.AddEdge(s1, s2, []string{"smb", "rdp", "ssh"}, false)
			}
		}
	}

	for _, rid := range []string{"rst-exec-01", "rst-exec-02", "rst-hr-01"} {
		g.AddEdge(rid, "srv-dc-01", []string{"ldap", "kerberos"}, false)
	}
	restricted := []string{"rst-exec-01", "rst-exec-02", "rst-hr-01"}
	for _, r1 := range restricted {
		for _, r2 := range restricted {
			if r1 != r2 {
				g.AddEdge(r1, r2, []string{"smb"}, false)
			}
		}
	}

	domainAdminValidOn := append([]string{}, serverIDs...)
	for i := 1; i <= 3; i++ {
		domainAdminValidOn = append(domainAdminValidOn, fmt.Sprintf("it-ws-%02d", i))
	}
	for i := 1; i <= 8; i++ {
		domainAdminValidOn = append(domainAdminValidOn, fmt.Sprintf("usr-ws-%02d", i))
	}
	domainAdminValidOn = append(domainAdminValidOn, "rst-exec-01", "rst-exec-02", "rst-hr-01")
	g.AddCredential(&Credential{ID: "cred-domain-admin", Username: "da-admin", Privilege: PrivAdmin, ValidOn: domainAdminValidOn})

	for _, srvID := range []string{"srv-file-01", "srv-app-01", "srv-db-01", "srv-backup-01"} {
		g.AddCredential(&Credential{
			ID: "cred-local-admin-" + srvID, Username: "local-admin-" + srvID,
			Privilege: PrivAdmin, ValidOn: []string{srvID},
		})
	}

	g.AddCredential(&Credential{ID: "cred-svc-app-db", Username: "svc-app", Privilege: PrivUser, ValidOn: []string{"srv-app-01", "srv-db-01"}})

	for i := 1; i <= 8; i++ {
		g.AddCredential(&Credential{
			ID: fmt.Sprintf("cred-user-%02d", i), Username: fmt.Sprintf("user%02d", i),
			Privilege: PrivUser, ValidOn: []string{fmt.Sprintf("usr-ws-%02d", i)},
		})
	}

	for i := 1; i <= 3; i++ {
		g.AddCredential(&Credential{
			ID: fmt.Sprintf("cred-it-admin-%02d", i), Username: fmt.Sprintf("itadmin%02d", i),
			Privilege: PrivAdmin, ValidOn: append([]string{fmt.Sprintf("it-ws-%02d", i)}, serverIDs...),
		})
	}

	g.AddCredential(&Credential{ID: "cred-hr-admin", Username: "hr-admin", Privilege: PrivAdmin, ValidOn: []string{"rst-hr-01", "rst-exec-01", "rst-exec-02"}})

	return g
}

// topologyDoc is the JSON-serializable shape of a Graph, used for
// SaveJSON/LoadJSON round-trips.
type topologyDoc struct {
	Hosts       []*Host             `json:"hosts"`
	Edges       []topologyEdgeDoc   `json:"edges"`
	Credentials []*Credential       `json:"credentials"`
	Segments    map[string][]string `json:"segments"`
}

type topologyEdgeDoc struct {
	Source             string   `json:"source"`
	Target             string   `json:"target"`
	Protocols          []string `json:"protocols"`
	RequiresCredential bool     `json:"requires_credential"`
}

// SaveJSON serializes the full topology (hosts, edges, credentials,
// segments) to a file.
func SaveJSON(g *Graph, path string) error {
	doc := topologyDoc{Segments: g.segments}
	for _, h := range g.hosts {
		doc.Hosts = append(doc.Hosts, h)
	}
	for src, edges := range g.edges {
		for _, e := range edges {
			doc.Edges = append(doc.Edges, topologyEdgeDoc{
				Source: src, Target: e.Target, Protocols: e.Protocols, RequiresCredential: e.RequiresCredential,
			})
		}
	}
	for _, c := range g.credentials {
		doc.Credentials = append(doc.Credentials, c)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("network: marshal topology: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("network: write %s: %w", path, err)
	}
	return nil
}

// LoadJSON deserializes a topology previously written by SaveJSON.
func LoadJSON(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("network: read %s: %w", path, err)
	}
	var doc topologyDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("network: parse %s: %w", path, err)
	}
	g := NewGraph()
	for _, h := range doc.Hosts {
		g.AddHost(h)
	}
	for _, e := range doc.Edges {
		g.AddEdge(e.Source, e.Target, e.Protocols, e.RequiresCredential)
	}
	for _, c := range doc.Credentials {
		g.AddCredential(c)
	}
	return g, nil
}
