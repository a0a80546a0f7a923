package kexrt

// ValueRestrict filters which registry value types a query may return.
// Each bit corresponds to a REG_* type code: bit n allows type n.
type ValueRestrict uint32

const (
	RestrictNone      ValueRestrict = 1 << 0  // REG_NONE
	RestrictSZ        ValueRestrict = 1 << 1  // REG_SZ
	RestrictExpandSZ  ValueRestrict = 1 << 2  // REG_EXPAND_SZ
	RestrictBinary    ValueRestrict = 1 << 3  // REG_BINARY
	RestrictDWord     ValueRestrict = 1 << 4  // REG_DWORD
	RestrictDWordBE   ValueRestrict = 1 << 5  // REG_DWORD_BIG_ENDIAN
	RestrictLink      ValueRestrict = 1 << 6  // REG_LINK
	RestrictMultiSZ   ValueRestrict = 1 << 7  // REG_MULTI_SZ
	RestrictResList   ValueRestrict = 1 << 8  // REG_RESOURCE_LIST
	RestrictFullRes   ValueRestrict = 1 << 9  // REG_FULL_RESOURCE_DESCRIPTOR
	RestrictResReqs   ValueRestrict = 1 << 10 // REG_RESOURCE_REQUIREMENTS_LIST
	RestrictQWord     ValueRestrict = 1 << 11 // REG_QWORD
	RestrictAnyString               = RestrictSZ | RestrictExpandSZ | RestrictMultiSZ
	RestrictAny                     = ValueRestrict(1<<12 - 1)
)

const legalRestrictMask = RestrictAny

func (r ValueRestrict) allows(valueType uint32) bool {
	if valueType > 31 {
		return false
	}
	return r&(1<<valueType) != 0
}
