// Package attck holds the immutable catalog of MITRE ATT&CK techniques the
// simulation engine knows how to execute and detect.
package attck

// Tactic is one of the eleven kill-chain stages modeled. There is
// deliberately no Command-and-Control tactic: every technique here either
// establishes access, executes, persists, escalates, evades, harvests,
// discovers, moves, collects, exfiltrates, or impacts, and C2 traffic itself
// is never a simulated step.
type Tactic string

const (
	TacticInitialAccess     Tactic = "initial_access"
	TacticExecution         Tactic = "execution"
	TacticPersistence       Tactic = "persistence"
	TacticPrivilegeEscalation Tactic = "privilege_escalation"
	TacticDefenseEvasion    Tactic = "defense_evasion"
	TacticCredentialAccess  Tactic = "credential_access"
	TacticDiscovery         Tactic = "discovery"
	TacticLateralMovement   Tactic = "lateral_movement"
	TacticCollection        Tactic = "collection"
	TacticExfiltration      Tactic = "exfiltration"
	TacticImpact            Tactic = "impact"
)

// TacticOrder lists every tactic in kill-chain order, mirroring the order an
// attack chain is loosely expected to progress through.
var TacticOrder = []Tactic{
	TacticInitialAccess,
	TacticExecution,
	TacticPersistence,
	TacticPrivilegeEscalation,
	TacticDefenseEvasion,
	TacticCredentialAccess,
	TacticDiscovery,
	TacticLateralMovement,
	TacticCollection,
	TacticExfiltration,
	TacticImpact,
}

// PreconditionType enumerates the kinds of simulation state a technique can
// require before it is eligible to run.
type PreconditionType string

const (
	PreconditionPositionExternal    PreconditionType = "position_external"
	PreconditionPositionInternal    PreconditionType = "position_internal"
	PreconditionPositionOnHost      PreconditionType = "position_on_host"
	PreconditionPrivilegeUser       PreconditionType = "privilege_user"
	PreconditionPrivilegeAdmin      PreconditionType = "privilege_admin"
	PreconditionServiceRunning      PreconditionType = "service_running"
	PreconditionVulnerabilityExists PreconditionType = "vulnerability_exists"
	PreconditionCredentialAvailable PreconditionType = "credential_available"
	PreconditionHostNotIsolated     PreconditionType = "host_not_isolated"
	PreconditionOSWindows           PreconditionType = "os_windows"
	PreconditionOSLinux             PreconditionType = "os_linux"
	PreconditionHostIsDC            PreconditionType = "host_is_dc"
	PreconditionHasCredentialCache  PreconditionType = "has_credential_cache"
	PreconditionDataStaged          PreconditionType = "data_staged"
	PreconditionHasInternetAccess   PreconditionType = "has_internet_access"
)

// EffectType enumerates the kinds of state change a successful technique
// applies to the simulation.
type EffectType string

const (
	EffectGainFoothold          EffectType = "gain_foothold"
	EffectElevatePrivilege      EffectType = "elevate_privilege"
	EffectHarvestCredentials    EffectType = "harvest_credentials"
	EffectEstablishPersistence  EffectType = "establish_persistence"
	EffectMoveLaterally         EffectType = "move_laterally"
	EffectExfiltrateData        EffectType = "exfiltrate_data"
	EffectExecuteCommand        EffectType = "execute_command"
	EffectDiscoverHosts         EffectType = "discover_hosts"
	EffectReduceDetection       EffectType = "reduce_detection"
	EffectIncreaseStealth       EffectType = "increase_stealth"
	EffectStageData             EffectType = "stage_data"
	EffectEncryptHost           EffectType = "encrypt_host"
	EffectStopServices          EffectType = "stop_services"
)

// Precondition is one requirement checked against simulation state before a
// technique is allowed to execute.
type Precondition struct {
	Type        PreconditionType
	ServiceName string
	Value       float64
}

// Effect is one state change applied when a technique succeeds.
type Effect struct {
	Type           EffectType
	PrivilegeLevel string
	Value          float64
}

// Technique is the static definition of one modeled ATT&CK technique: its
// tactic, the preconditions that gate it, the effects it applies on success,
// and the baseline rates the simulation engine samples from.
type Technique struct {
	ID                string
	Name              string
	Tactic            Tactic
	Preconditions     []Precondition
	Effects           []Effect
	BaseSuccessRate   float64
	StealthBase       float64
	CommonDataSources []string
}

// Registry is an immutable, concurrency-safe lookup over the technique
// catalog built once at process startup.
type Registry struct {
	byID     map[string]*Technique
	ordered  []*Technique
}

// NewRegistry builds the full technique catalog. There is no global
// singleton: callers construct one registry and share it, matching the
// accept-an-interface idiom used elsewhere in this module.
func NewRegistry() *Registry {
	techniques := buildCatalog()
	r := &Registry{
		byID:    make(map[string]*Technique, len(techniques)),
		ordered: make([]*Technique, 0, len(techniques)),
	}
	for i := range techniques {
		t := &techniques[i]
		r.byID[t.ID] = t
		r.ordered = append(r.ordered, t)
	}
	return r
}

// Get returns the technique with the given ID, or false if it is not
// modeled.
func (r *Registry) Get(id string) (*Technique, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// MustGet panics if the technique isn't modeled. Reserved for call sites
// that build genomes directly from catalog IDs they already iterated.
func (r *Registry) MustGet(id string) *Technique {
	t, ok := r.byID[id]
	if !ok {
		panic("attck: unknown technique id " + id)
	}
	return t
}

// ByTactic returns every technique belonging to a tactic.
func (r *Registry) ByTactic(tactic Tactic) []*Technique {
	out := make([]*Technique, 0)
	for _, t := range r.ordered {
		if t.Tactic == tactic {
			out = append(out, t)
		}
	}
	return out
}

// InitialAccess returns every technique that can begin an attack chain.
func (r *Registry) InitialAccess() []*Technique {
	return r.ByTactic(TacticInitialAccess)
}

// AllIDs returns every registered technique ID in catalog order.
func (r *Registry) AllIDs() []string {
	ids := make([]string, len(r.ordered))
	for i, t := range r.ordered {
		ids[i] = t.ID
	}
	return ids
}

// All returns every registered technique in catalog order.
func (r *Registry) All() []*Technique {
	return r.ordered
}

// Len reports the number of modeled techniques.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// Contains reports whether a technique ID is modeled.
func (r *Registry) Contains(id string) bool {
	_, ok := r.byID[id]
	return ok
}

func buildCatalog() []Technique {
	return []Technique{
		// Initial Access
		{
			ID: "T1566.001", Name: "Phishing: Spearphishing Attachment", Tactic: TacticInitialAccess,
			Preconditions: []Precondition{{Type: PreconditionPositionExternal}},
			Effects:       []Effect{{Type: EffectGainFoothold, PrivilegeLevel: "user"}},
			BaseSuccessRate: 0.35, StealthBase: 0.6,
			CommonDataSources: []string{"Email Gateway", "Process Creation", "File Creation"},
		},
		{
			ID: "T1566.002", Name: "Phishing: Spearphishing Link", Tactic: TacticInitialAccess,
			Preconditions: []Precondition{{Type: PreconditionPositionExternal}},
			Effects:       []Effect{{Type: EffectGainFoothold, PrivilegeLevel: "user"}},
			BaseSuccessRate: 0.30, StealthBase: 0.7,
			CommonDataSources: []string{"Web Proxy", "DNS", "Process Creation"},
		},
		{
			ID: "T1190", Name: "Exploit Public-Facing Application", Tactic: TacticInitialAccess,
			Preconditions: []Precondition{{Type: PreconditionPositionExternal}, {Type: PreconditionVulnerabilityExists}},
			Effects:       []Effect{{Type: EffectGainFoothold, PrivilegeLevel: "user"}},
			BaseSuccessRate: 0.70, StealthBase: 0.4,
			CommonDataSources: []string{"Network Traffic", "Application Log", "Web Server Log"},
		},
		{
			ID: "T1133", Name: "External Remote Services", Tactic: TacticInitialAccess,
			Preconditions: []Precondition{{Type: PreconditionPositionExternal}, {Type: PreconditionCredentialAvailable}},
			Effects:       []Effect{{Type: EffectGainFoothold}},
			BaseSuccessRate: 0.85, StealthBase: 0.8,
			CommonDataSources: []string{"Authentication Log", "Network Connection"},
		},
		{
			ID: "T1078", Name: "Valid Accounts", Tactic: TacticInitialAccess,
			Preconditions: []Precondition{{Type: PreconditionCredentialAvailable}},
			Effects:       []Effect{{Type: EffectGainFoothold}},
			BaseSuccessRate: 0.90, StealthBase: 0.9,
			CommonDataSources: []string{"Authentication Log", "Account Usage Audit"},
		},
		// Execution
		{
			ID: "T1059.001", Name: "Command and Scripting: PowerShell", Tactic: TacticExecution,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionOSWindows}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectExecuteCommand}},
			BaseSuccessRate: 0.85, StealthBase: 0.5,
			CommonDataSources: []string{"Script Execution", "Process Creation", "Command Line"},
		},
		{
			ID: "T1059.004", Name: "Command and Scripting: Unix Shell", Tactic: TacticExecution,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionOSLinux}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectExecuteCommand}},
			BaseSuccessRate: 0.90, StealthBase: 0.6,
			CommonDataSources: []string{"Process Creation", "Command Line Audit"},
		},
		{
			ID: "T1047", Name: "Windows Management Instrumentation", Tactic: TacticExecution,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionOSWindows}, {Type: PreconditionPrivilegeAdmin}},
			Effects:       []Effect{{Type: EffectExecuteCommand}},
			BaseSuccessRate: 0.80, StealthBase: 0.65,
			CommonDataSources: []string{"WMI Trace", "Process Creation"},
		},
		// Persistence
		{
			ID: "T1053.005", Name: "Scheduled Task/Job: Scheduled Task", Tactic: TacticPersistence,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectEstablishPersistence}},
			BaseSuccessRate: 0.80, StealthBase: 0.5,
			CommonDataSources: []string{"Scheduled Task Creation", "Process Creation"},
		},
		{
			ID: "T1543.003", Name: "Create or Modify System Process: Windows Service", Tactic: TacticPersistence,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionOSWindows}, {Type: PreconditionPrivilegeAdmin}},
			Effects:       []Effect{{Type: EffectEstablishPersistence}},
			BaseSuccessRate: 0.75, StealthBase: 0.4,
			CommonDataSources: []string{"Service Creation", "Windows Registry"},
		},
		{
			ID: "T1136.001", Name: "Create Account: Local Account", Tactic: TacticPersistence,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeAdmin}},
			Effects:       []Effect{{Type: EffectEstablishPersistence}, {Type: EffectHarvestCredentials}},
			BaseSuccessRate: 0.90, StealthBase: 0.3,
			CommonDataSources: []string{"Account Creation", "Security Log"},
		},
		{
			ID: "T1547.001", Name: "Boot or Logon Autostart Execution: Registry Run Keys", Tactic: TacticPersistence,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionOSWindows}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectEstablishPersistence}},
			BaseSuccessRate: 0.85, StealthBase: 0.45,
			CommonDataSources: []string{"Windows Registry", "Process Creation"},
		},
		// Privilege Escalation
		{
			ID: "T1068", Name: "Exploitation for Privilege Escalation", Tactic: TacticPrivilegeEscalation,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeUser}, {Type: PreconditionVulnerabilityExists}},
			Effects:       []Effect{{Type: EffectElevatePrivilege, PrivilegeLevel: "admin"}},
			BaseSuccessRate: 0.60, StealthBase: 0.4,
			CommonDataSources: []string{"Process Creation", "Exploit Guard"},
		},
		{
			ID: "T1548.002", Name: "Abuse Elevation Control: Bypass UAC", Tactic: TacticPrivilegeEscalation,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionOSWindows}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectElevatePrivilege, PrivilegeLevel: "admin"}},
			BaseSuccessRate: 0.65, StealthBase: 0.55,
			CommonDataSources: []string{"Process Creation", "Windows Registry"},
		},
		{
			ID: "T1134", Name: "Access Token Manipulation", Tactic: TacticPrivilegeEscalation,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeAdmin}},
			Effects:       []Effect{{Type: EffectElevatePrivilege, PrivilegeLevel: "system"}},
			BaseSuccessRate: 0.75, StealthBase: 0.6,
			CommonDataSources: []string{"API Monitoring", "Access Token"},
		},
		// Defense Evasion
		{
			ID: "T1070.001", Name: "Indicator Removal: Clear Windows Event Logs", Tactic: TacticDefenseEvasion,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionOSWindows}, {Type: PreconditionPrivilegeAdmin}},
			Effects:       []Effect{{Type: EffectReduceDetection, Value: 0.3}},
			BaseSuccessRate: 0.90, StealthBase: 0.2,
			CommonDataSources: []string{"Log Deletion Event", "Security Log"},
		},
		{
			ID: "T1027", Name: "Obfuscated Files or Information", Tactic: TacticDefenseEvasion,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectIncreaseStealth, Value: 0.15}},
			BaseSuccessRate: 0.85, StealthBase: 0.7,
			CommonDataSources: []string{"File Analysis", "Script Execution"},
		},
		{
			ID: "T1218.011", Name: "System Binary Proxy Execution: Rundll32", Tactic: TacticDefenseEvasion,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionOSWindows}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectExecuteCommand}, {Type: EffectIncreaseStealth, Value: 0.2}},
			BaseSuccessRate: 0.80, StealthBase: 0.75,
			CommonDataSources: []string{"Process Creation", "Module Load"},
		},
		// Credential Access
		{
			ID: "T1003.001", Name: "OS Credential Dumping: LSASS Memory", Tactic: TacticCredentialAccess,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionOSWindows}, {Type: PreconditionPrivilegeAdmin}, {Type: PreconditionHasCredentialCache}},
			Effects:       []Effect{{Type: EffectHarvestCredentials}},
			BaseSuccessRate: 0.85, StealthBase: 0.3,
			CommonDataSources: []string{"Process Access (LSASS)", "Sensor Health"},
		},
		{
			ID: "T1003.003", Name: "OS Credential Dumping: NTDS", Tactic: TacticCredentialAccess,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionHostIsDC}, {Type: PreconditionPrivilegeAdmin}},
			Effects:       []Effect{{Type: EffectHarvestCredentials}},
			BaseSuccessRate: 0.80, StealthBase: 0.2,
			CommonDataSources: []string{"File Access", "Volume Shadow Copy", "Command Line"},
		},
		{
			ID: "T1558.003", Name: "Steal or Forge Kerberos Tickets: Kerberoasting", Tactic: TacticCredentialAccess,
			Preconditions: []Precondition{{Type: PreconditionPositionInternal}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectHarvestCredentials}},
			BaseSuccessRate: 0.75, StealthBase: 0.65,
			CommonDataSources: []string{"Kerberos Traffic", "Authentication Log"},
		},
		{
			ID: "T1110.003", Name: "Brute Force: Password Spraying", Tactic: TacticCredentialAccess,
			Preconditions: []Precondition{},
			Effects:       []Effect{{Type: EffectHarvestCredentials}},
			BaseSuccessRate: 0.20, StealthBase: 0.4,
			CommonDataSources: []string{"Authentication Log", "Account Lockout"},
		},
		// Discovery
		{
			ID: "T1018", Name: "Remote System Discovery", Tactic: TacticDiscovery,
			Preconditions: []Precondition{{Type: PreconditionPositionInternal}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectDiscoverHosts}},
			BaseSuccessRate: 0.95, StealthBase: 0.7,
			CommonDataSources: []string{"Network Traffic", "Process Creation"},
		},
		{
			ID: "T1083", Name: "File and Directory Discovery", Tactic: TacticDiscovery,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectStageData}},
			BaseSuccessRate: 0.95, StealthBase: 0.85,
			CommonDataSources: []string{"Process Creation", "Command Line"},
		},
		{
			ID: "T1087.002", Name: "Account Discovery: Domain Account", Tactic: TacticDiscovery,
			Preconditions: []Precondition{{Type: PreconditionPositionInternal}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectDiscoverHosts}},
			BaseSuccessRate: 0.90, StealthBase: 0.7,
			CommonDataSources: []string{"LDAP Query", "Authentication Log"},
		},
		{
			ID: "T1087.001", Name: "Account Discovery: Local Account", Tactic: TacticDiscovery,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectDiscoverHosts}},
			BaseSuccessRate: 0.92, StealthBase: 0.75,
			CommonDataSources: []string{"Process Creation", "Command Line"},
		},
		// Lateral Movement
		{
			ID: "T1021.001", Name: "Remote Services: Remote Desktop Protocol", Tactic: TacticLateralMovement,
			Preconditions: []Precondition{{Type: PreconditionServiceRunning, ServiceName: "rdp"}, {Type: PreconditionCredentialAvailable}, {Type: PreconditionHostNotIsolated}},
			Effects:       []Effect{{Type: EffectMoveLaterally}},
			BaseSuccessRate: 0.85, StealthBase: 0.6,
			CommonDataSources: []string{"Network Connection", "Authentication Log", "RDP Log"},
		},
		{
			ID: "T1021.002", Name: "Remote Services: SMB/Windows Admin Shares", Tactic: TacticLateralMovement,
			Preconditions: []Precondition{{Type: PreconditionServiceRunning, ServiceName: "smb"}, {Type: PreconditionCredentialAvailable}, {Type: PreconditionHostNotIsolated}},
			Effects:       []Effect{{Type: EffectMoveLaterally}},
			BaseSuccessRate: 0.80, StealthBase: 0.5,
			CommonDataSources: []string{"Network Share Access", "SMB Traffic", "Authentication Log"},
		},
		{
			ID: "T1021.004", Name: "Remote Services: SSH", Tactic: TacticLateralMovement,
			Preconditions: []Precondition{{Type: PreconditionServiceRunning, ServiceName: "ssh"}, {Type: PreconditionCredentialAvailable}, {Type: PreconditionHostNotIsolated}},
			Effects:       []Effect{{Type: EffectMoveLaterally}},
			BaseSuccessRate: 0.85, StealthBase: 0.65,
			CommonDataSources: []string{"SSH Log", "Authentication Log", "Network Connection"},
		},
		{
			ID: "T1570", Name: "Lateral Tool Transfer", Tactic: TacticLateralMovement,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeUser}, {Type: PreconditionHostNotIsolated}},
			Effects:       []Effect{{Type: EffectExecuteCommand}},
			BaseSuccessRate: 0.75, StealthBase: 0.5,
			CommonDataSources: []string{"Network Traffic", "File Creation"},
		},
		{
			ID: "T1210", Name: "Exploitation of Remote Services", Tactic: TacticLateralMovement,
			Preconditions: []Precondition{{Type: PreconditionVulnerabilityExists}, {Type: PreconditionHostNotIsolated}},
			Effects:       []Effect{{Type: EffectMoveLaterally}},
			BaseSuccessRate: 0.55, StealthBase: 0.35,
			CommonDataSources: []string{"Network Traffic", "IDS/IPS", "Application Log"},
		},
		// Collection
		{
			ID: "T1005", Name: "Data from Local System", Tactic: TacticCollection,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectStageData}},
			BaseSuccessRate: 0.90, StealthBase: 0.75,
			CommonDataSources: []string{"File Access", "Process Creation"},
		},
		{
			ID: "T1039", Name: "Data from Network Shared Drive", Tactic: TacticCollection,
			Preconditions: []Precondition{{Type: PreconditionPositionInternal}, {Type: PreconditionPrivilegeUser}, {Type: PreconditionServiceRunning, ServiceName: "smb"}},
			Effects:       []Effect{{Type: EffectStageData}},
			BaseSuccessRate: 0.85, StealthBase: 0.7,
			CommonDataSources: []string{"Network Share Access", "File Access"},
		},
		// Exfiltration
		{
			ID: "T1048", Name: "Exfiltration Over Alternative Protocol", Tactic: TacticExfiltration,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionDataStaged}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectExfiltrateData}},
			BaseSuccessRate: 0.75, StealthBase: 0.5,
			CommonDataSources: []string{"Network Traffic", "DNS", "Firewall Log"},
		},
		{
			ID: "T1041", Name: "Exfiltration Over C2 Channel", Tactic: TacticExfiltration,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionDataStaged}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectExfiltrateData}},
			BaseSuccessRate: 0.80, StealthBase: 0.6,
			CommonDataSources: []string{"Network Traffic", "Proxy Log"},
		},
		{
			ID: "T1567.002", Name: "Exfiltration Over Web Service: Cloud Storage", Tactic: TacticExfiltration,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionDataStaged}, {Type: PreconditionPrivilegeUser}},
			Effects:       []Effect{{Type: EffectExfiltrateData}},
			BaseSuccessRate: 0.85, StealthBase: 0.7,
			CommonDataSources: []string{"Cloud API Log", "Network Traffic", "Web Proxy"},
		},
		// Impact
		{
			ID: "T1486", Name: "Data Encrypted for Impact", Tactic: TacticImpact,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeAdmin}},
			Effects:       []Effect{{Type: EffectEncryptHost}},
			BaseSuccessRate: 0.90, StealthBase: 0.1,
			CommonDataSources: []string{"File Modification", "Service Stop"},
		},
		{
			ID: "T1489", Name: "Service Stop", Tactic: TacticImpact,
			Preconditions: []Precondition{{Type: PreconditionPositionOnHost}, {Type: PreconditionPrivilegeAdmin}},
			Effects:       []Effect{{Type: EffectStopServices}},
			BaseSuccessRate: 0.95, StealthBase: 0.2,
			CommonDataSources: []string{"Service Activity", "Process Termination"},
		},
	}
}
