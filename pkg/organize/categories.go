package organize

// CategoryOthers is the fallback category for unknown or missing extensions.
const CategoryOthers = "Others"

// categories maps lower-cased file extensions to destination folder names for
// type-based organizing.
var categories = map[string]string{
	// Images
	"jpg": "Images", "jpeg": "Images", "png": "Images", "gif": "Images",
	"bmp": "Images", "tiff": "Images", "tif": "Images", "webp": "Images",
	"heic": "Images", "ico": "Images", "raw": "Images",

	// Videos
	"mkv": "Videos", "mp4": "Videos", "avi": "Videos", "mov": "Videos",
	"wmv": "Videos", "flv": "Videos", "webm": "Videos", "mpg": "Videos",
	"mpeg": "Videos", "m4v": "Videos", "3gp": "Videos", "ts": "Videos",
	"m2ts": "Videos", "vob": "Videos",

	// Documents
	"pdf": "Documents", "doc": "Documents", "docx": "Documents",
	"odt": "Documents", "rtf": "Documents", "txt": "Documents",
	"md": "Documents", "tex": "Documents",

	// Audio
	"mp3": "Audio", "flac": "Audio", "wav": "Audio", "aac": "Audio",
	"ogg": "Audio", "m4a": "Audio", "wma": "Audio", "opus": "Audio",

	// Archives
	"zip": "Archives", "rar": "Archives", "7z": "Archives", "tar": "Archives",
	"gz": "Archives", "bz2": "Archives", "xz": "Archives", "zst": "Archives",

	// Code
	"go": "Code", "py": "Code", "js": "Code", "c": "Code",
	"h": "Code", "cpp": "Code", "java": "Code", "rs": "Code", "rb": "Code",
	"sh": "Code", "php": "Code", "cs": "Code", "html": "Code", "css": "Code",

	// eBooks
	"epub": "eBooks", "mobi": "eBooks", "azw": "eBooks", "azw3": "eBooks",
	"fb2": "eBooks", "djvu": "eBooks",

	// Executables
	"exe": "Executables", "msi": "Executables", "appimage": "Executables",
	"deb": "Executables", "rpm": "Executables", "apk": "Executables",

	// Fonts
	"ttf": "Fonts", "otf": "Fonts", "woff": "Fonts", "woff2": "Fonts",

	// Databases
	"db": "Databases", "sqlite": "Databases", "sqlite3": "Databases",
	"mdb": "Databases", "accdb": "Databases",

	// 3D models
	"stl": "3D_Models", "obj": "3D_Models", "fbx": "3D_Models",
	"blend": "3D_Models", "3mf": "3D_Models", "gltf": "3D_Models",

	// CAD
	"dwg": "CAD", "dxf": "CAD", "step": "CAD", "stp": "CAD", "iges": "CAD",

	// Spreadsheets
	"xls": "Spreadsheets", "xlsx": "Spreadsheets", "ods": "Spreadsheets",
	"csv": "Spreadsheets", "tsv": "Spreadsheets",

	// Presentations
	"ppt": "Presentations", "pptx": "Presentations", "odp": "Presentations",
	"key": "Presentations",

	// Vector graphics
	"svg": "Vector_Graphics", "eps": "Vector_Graphics", "ai": "Vector_Graphics",
	"cdr": "Vector_Graphics",

	// Disk images
	"iso": "Disk_Images", "img": "Disk_Images", "dmg": "Disk_Images",
	"vdi": "Disk_Images", "vmdk": "Disk_Images", "qcow2": "Disk_Images",

	// Config files
	"json": "Config_Files", "yaml": "Config_Files", "yml": "Config_Files",
	"toml": "Config_Files", "ini": "Config_Files", "cfg": "Config_Files",
	"conf": "Config_Files", "xml": "Config_Files",

	// Backup files
	"bak": "Backup_Files", "old": "Backup_Files", "orig": "Backup_Files",
	"backup": "Backup_Files",
}
