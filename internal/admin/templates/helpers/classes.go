package helpers

// Button palette shared by the characteristics editor.
const (
	ButtonBase     = "text-white focus:outline-none focus:ring-4 font-medium rounded-lg text-sm px-5 py-2.5 text-center"
	ButtonActive   = "dark:bg-blue-600 dark:hover:bg-blue-700 dark:focus:ring-blue-800"
	ButtonInactive = "dark:bg-gray-600 cursor-not-allowed"
	ButtonApply    = "dark:bg-green-600 dark:hover:bg-green-700 dark:focus:ring-green-800"
	ButtonDanger   = "dark:bg-red-600 dark:hover:bg-red-700 dark:focus:ring-red-900"
	InputClass     = "bg-gray-50 border border-gray-300 text-gray-900 text-sm rounded-lg focus:ring-blue-500 focus:border-blue-500 block w-full p-2.5 dark:bg-gray-700 dark:border-gray-600 dark:placeholder-gray-400 dark:text-white"
	LabelClass     = "block mb-2 text-sm font-medium text-gray-900 dark:text-white"
)

// AddButtonClass styles a category's add button by idleness.
func AddButtonClass(idle bool) string {
	if idle {
		return Classes(ButtonBase, ButtonActive)
	}
	return Classes(ButtonBase, ButtonInactive)
}

// ApplyButtonClass styles an apply button by completion.
func ApplyButtonClass(filled bool) string {
	if filled {
		return Classes(ButtonBase, ButtonApply)
	}
	return Classes(ButtonBase, ButtonInactive)
}

// BadgeClass maps semantic tones to utility classes.
func BadgeClass(tone string) string {
	switch tone {
	case "success":
		return "inline-flex items-center rounded-full bg-emerald-100 px-2 py-1 text-xs font-medium text-emerald-700"
	case "warning":
		return "inline-flex items-center rounded-full bg-amber-100 px-2 py-1 text-xs font-medium text-amber-700"
	default:
		return "inline-flex items-center rounded-full bg-slate-100 px-2 py-1 text-xs font-medium text-slate-700"
	}
}
