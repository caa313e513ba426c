package navigation

import "strings"

// Роли совпадают с roleName сервера.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleStaff   = "Staff"
	RoleMember  = "Member"
	RoleGuest   = "guest"
)

// Действия над ресурсом.
const (
	ActionView   = "view"
	ActionAdd    = "add"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionStatus = "status"
)

type Link struct {
	Href   string
	Label  string
	Icon   string
	Active bool
}

type section struct {
	key     string
	label   string
	icon    string
	actions []string
}

var full = []string{ActionView, ActionAdd, ActionEdit, ActionDelete}

var fullWithStatus = []string{ActionView, ActionAdd, ActionEdit, ActionDelete, ActionStatus}

// roleSections - какие ресурсы видит роль и что может с ними делать. Порядок - порядок меню.
var roleSections = map[string][]section{
	RoleAdmin: {
		{"members", "Hội viên", "users", full},
		{"trainers", "Huấn luyện viên", "dumbbell", full},
		{"staff", "Nhân viên", "id-card", full},
		{"packages", "Gói tập", "box", full},
		{"vouchers", "Mã giảm giá", "ticket", full},
		{"timeslots", "Khung giờ", "clock", full},
		{"equipment", "Thiết bị", "cog", full},
		{"repairs", "Báo cáo sửa chữa", "wrench", fullWithStatus},
		{"maintenance", "Lịch bảo trì", "calendar", fullWithStatus},
		{"users", "Tài khoản", "lock", full},
	},
	RoleManager: {
		{"members", "Hội viên", "users", full},
		{"trainers", "Huấn luyện viên", "dumbbell", full},
		{"packages", "Gói tập", "box", full},
		{"vouchers", "Mã giảm giá", "ticket", full},
		{"timeslots", "Khung giờ", "clock", full},
		{"equipment", "Thiết bị", "cog", full},
		{"repairs", "Báo cáo sửa chữa", "wrench", fullWithStatus},
		{"maintenance", "Lịch bảo trì", "calendar", fullWithStatus},
	},
	RoleStaff: {
		{"members", "Hội viên", "users", []string{ActionView, ActionAdd, ActionEdit}},
		{"timeslots", "Khung giờ", "clock", []string{ActionView}},
		{"equipment", "Thiết bị", "cog", []string{ActionView}},
		{"repairs", "Báo cáo sửa chữa", "wrench", []string{ActionView, ActionAdd}},
		{"maintenance", "Lịch bảo trì", "calendar", []string{ActionView, ActionStatus}},
	},
}

// Prefix - корень back-office роли ("/admin"), пусто для ролей без back-office.
func Prefix(role string) string {
	if _, ok := roleSections[role]; !ok {
		return ""
	}
	return "/" + strings.ToLower(role)
}

// BackOfficeRoles - роли, у которых есть back-office.
func BackOfficeRoles() []string {
	return []string{RoleAdmin, RoleManager, RoleStaff}
}

// ResourcesFor - ключи ресурсов роли в порядке меню.
func ResourcesFor(role string) []string {
	sections := roleSections[role]
	keys := make([]string, 0, len(sections))
	for _, s := range sections {
		keys = append(keys, s.key)
	}
	return keys
}

// Allowed - может ли роль выполнить действие над ресурсом.
func Allowed(role, resource, action string) bool {
	for _, s := range roleSections[role] {
		if s.key != resource {
			continue
		}
		for _, a := range s.actions {
			if a == action {
				return true
			}
		}
	}
	return false
}

// LinksFor - ссылки меню роли; ссылка текущего раздела помечается Active.
func LinksFor(role, currentPath string) []Link {
	var links []Link
	switch role {
	case RoleAdmin, RoleManager, RoleStaff:
		prefix := Prefix(role)
		links = append(links, Link{Href: "/", Label: "Trang chủ", Icon: "home"})
		for _, s := range roleSections[role] {
			links = append(links, Link{Href: prefix + "/" + s.key, Label: s.label, Icon: s.icon})
		}
		if role == RoleAdmin {
			links = append(links, Link{Href: "/admin/audit", Label: "Nhật ký hoạt động", Icon: "list"})
		}
		links = append(links, Link{Href: "/profile", Label: "Hồ sơ", Icon: "user"})
	case RoleMember:
		links = []Link{
			{Href: "/", Label: "Trang chủ", Icon: "home"},
			{Href: "/packages", Label: "Gói tập", Icon: "box"},
			{Href: "/about", Label: "Giới thiệu", Icon: "info"},
			{Href: "/profile", Label: "Hồ sơ", Icon: "user"},
		}
	default:
		links = []Link{
			{Href: "/", Label: "Trang chủ", Icon: "home"},
			{Href: "/packages", Label: "Gói tập", Icon: "box"},
			{Href: "/about", Label: "Giới thiệu", Icon: "info"},
			{Href: "/login", Label: "Đăng nhập", Icon: "log-in"},
		}
	}

	for i := range links {
		links[i].Active = isActive(links[i].Href, currentPath)
	}
	return links
}

// SectionLabel - заголовок раздела ресурса для роли.
func SectionLabel(role, resource string) string {
	for _, s := range roleSections[role] {
		if s.key == resource {
			return s.label
		}
	}
	return resource
}

func isActive(href, current string) bool {
	if href == "/" {
		return current == "/"
	}
	return current == href || strings.HasPrefix(current, href+"/")
}
