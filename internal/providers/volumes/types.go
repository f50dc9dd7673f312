package volumes

// Flags classifies a volume.
type Flags struct {
	Removable bool `json:"removable"`
	ReadOnly  bool `json:"read_only"`
	System    bool `json:"system"`
	Virtual   bool `json:"virtual"`
	USB       bool `json:"usb"`
	SCSI      bool `json:"scsi"`
	Card      bool `json:"card"`
}

// Info describes one mounted volume. MountPath is the identity key.
// Records are refreshed wholesale on every cache miss.
type Info struct {
	Label            string  `json:"label"`
	MountPath        string  `json:"mount_path"`
	Device           string  `json:"device"`
	Filesystem       string  `json:"filesystem"`
	CapacityBytes    uint64  `json:"capacity_bytes"`
	UsedBytes        uint64  `json:"used_bytes"`
	AvailableBytes   uint64  `json:"available_bytes"`
	UsedPercent      float64 `json:"used_percent"`
	BusType          string  `json:"bus_type,omitempty"`
	DeviceDesc       string  `json:"device_description,omitempty"`
	Flags            Flags   `json:"flags"`
	PartitionTable   string  `json:"partition_table,omitempty"`
	LogicalBlockSize int     `json:"logical_block_size,omitempty"`
}

// DeviceMeta is the device/bus half of an enumeration, merged into the
// capacity records when mount paths match.
type DeviceMeta struct {
	MountPath        string
	Label            string
	BusType          string
	Description      string
	Removable        bool
	USB              bool
	SCSI             bool
	Card             bool
	PartitionTable   string
	LogicalBlockSize int
}
