// Package resource defines the handles returned by the OpenNebula pools and
// the XML decoding of pool and info responses.
//
// Handles are fetched fresh on every query and never cached; the remote
// system is the source of truth.
package resource

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/jbweber/onectl/internal/template"
)

// Kind identifies a resource pool.
type Kind string

const (
	KindVM        Kind = "vm"
	KindHost      Kind = "host"
	KindCluster   Kind = "cluster"
	KindTemplate  Kind = "template"
	KindDatastore Kind = "datastore"
	KindUser      Kind = "user"
	KindGroup     Kind = "group"
)

// Kinds lists every supported kind in a stable order.
var Kinds = []Kind{KindVM, KindHost, KindCluster, KindTemplate, KindDatastore, KindUser, KindGroup}

// ParseKind converts a user supplied kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindVM, KindHost, KindCluster, KindTemplate, KindDatastore, KindUser, KindGroup:
		return k, nil
	case "vmtemplate":
		return KindTemplate, nil
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

// Element returns the XML element name used for a single object of this kind.
func (k Kind) Element() string {
	if k == KindTemplate {
		return "VMTEMPLATE"
	}
	return strings.ToUpper(string(k))
}

// Plural is the lower-case plural used in user facing messages.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Permissions is the 9-bit OpenNebula permission set. Each field is 0 or 1.
type Permissions struct {
	OwnerU int `xml:"OWNER_U" json:"owner_u" yaml:"owner_u"`
	OwnerM int `xml:"OWNER_M" json:"owner_m" yaml:"owner_m"`
	OwnerA int `xml:"OWNER_A" json:"owner_a" yaml:"owner_a"`
	GroupU int `xml:"GROUP_U" json:"group_u" yaml:"group_u"`
	GroupM int `xml:"GROUP_M" json:"group_m" yaml:"group_m"`
	GroupA int `xml:"GROUP_A" json:"group_a" yaml:"group_a"`
	OtherU int `xml:"OTHER_U" json:"other_u" yaml:"other_u"`
	OtherM int `xml:"OTHER_M" json:"other_m" yaml:"other_m"`
	OtherA int `xml:"OTHER_A" json:"other_a" yaml:"other_a"`
}

// Bits returns the permission bits in the positional order the chmod call
// expects: owner, group, other, each as use, manage, admin.
func (p Permissions) Bits() [9]int {
	return [9]int{p.OwnerU, p.OwnerM, p.OwnerA, p.GroupU, p.GroupM, p.GroupA, p.OtherU, p.OtherM, p.OtherA}
}

// Handle is an identity-bearing reference to a remote object.
type Handle struct {
	XMLName      xml.Name          `json:"-" yaml:"-"`
	Kind         Kind              `xml:"-" json:"kind" yaml:"kind"`
	ID           int               `xml:"ID" json:"id" yaml:"id"`
	Name         string            `xml:"NAME" json:"name" yaml:"name"`
	UID          int               `xml:"UID" json:"uid" yaml:"uid"`
	GID          int               `xml:"GID" json:"gid" yaml:"gid"`
	UName        string            `xml:"UNAME" json:"uname,omitempty" yaml:"uname,omitempty"`
	GName        string            `xml:"GNAME" json:"gname,omitempty" yaml:"gname,omitempty"`
	State        int               `xml:"STATE" json:"state" yaml:"state"`
	LCMState     int               `xml:"LCM_STATE" json:"lcm_state" yaml:"lcm_state"`
	Permissions  *Permissions      `xml:"PERMISSIONS" json:"permissions,omitempty" yaml:"permissions,omitempty"`
	Template     template.Template `xml:"TEMPLATE" json:"template,omitempty" yaml:"template,omitempty"`
	UserTemplate template.Template `xml:"USER_TEMPLATE" json:"user_template,omitempty" yaml:"user_template,omitempty"`
}

// IDs extracts the IDs of the handles, preserving order.
func IDs(handles []Handle) []int {
	ids := make([]int, 0, len(handles))
	for _, h := range handles {
		ids = append(ids, h.ID)
	}
	return ids
}
