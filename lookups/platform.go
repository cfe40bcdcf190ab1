package lookups

// Symbols of legal values
const (
	PlatformPC int32 = iota
	PlatformPlaystation
	PlatformXBox
	PlatformSwitch
	PlatformMobile
)

// Platform returns a "generic" string for a given value
func Platform(value int32) string {

	var str = ""

	switch {
	case value == PlatformPC:
		str = "pc"
	case value == PlatformPlaystation:
		str = "playstation"
	case value == PlatformXBox:
		str = "xbox"
	case value == PlatformSwitch:
		str = "switch"
	case value == PlatformMobile:
		str = "mobile"
	}

	return str
}
