package classify

// defaultRules is the embedded rule table. Slice order doubles as the
// tie-break order, so keep it aligned with the category table.
var defaultRules = []Rule{
	{
		Category: "Thời sự",
		Groups: []KeywordGroup{
			{Keywords: []string{"thời sự", "chính trị", "quốc hội", "chính phủ", "thủ tướng"}, Weight: 3},
			{Keywords: []string{"nghị quyết", "bộ trưởng", "ubnd", "hội đồng nhân dân"}, Weight: 2},
		},
		ImageFragments: []string{"/thoi-su/", "/chinh-tri/"},
	},
	{
		Category: "Thế giới",
		Groups: []KeywordGroup{
			{Keywords: []string{"thế giới", "quốc tế", "liên hợp quốc", "ngoại giao"}, Weight: 3},
			{Keywords: []string{"mỹ", "trung quốc", "nga", "ukraine", "châu âu"}, Weight: 1},
		},
		ImageFragments: []string{"/the-gioi/"},
	},
	{
		Category: "Pháp luật",
		Groups: []KeywordGroup{
			{Keywords: []string{"pháp luật", "tòa án", "khởi tố", "truy tố", "bắt giữ"}, Weight: 3},
			{Keywords: []string{"công an", "điều tra", "vi phạm", "án phạt", "xét xử"}, Weight: 2},
		},
		ImageFragments: []string{"/phap-luat/"},
	},
	{
		Category: "Kinh doanh",
		Groups: []KeywordGroup{
			{Keywords: []string{"kinh doanh", "kinh tế", "chứng khoán", "doanh nghiệp", "ngân hàng"}, Weight: 3},
			{Keywords: []string{"lãi suất", "cổ phiếu", "xuất khẩu", "đầu tư", "thị trường"}, Weight: 2},
		},
		ImageFragments: []string{"/kinh-doanh/", "/kinh-te/"},
	},
	{
		Category: "Công nghệ",
		Groups: []KeywordGroup{
			{Keywords: []string{"công nghệ", "smartphone", "trí tuệ nhân tạo", "phần mềm"}, Weight: 3},
			{Keywords: []string{"ai", "chip", "internet", "ứng dụng", "máy tính"}, Weight: 2},
		},
		ImageFragments: []string{"/cong-nghe/", "/nhip-song-so/"},
	},
	{
		Category: "Xe",
		Groups: []KeywordGroup{
			{Keywords: []string{"ô tô", "xe máy", "xe điện", "xe hơi"}, Weight: 3},
			{Keywords: []string{"vinfast", "honda", "toyota", "đăng kiểm"}, Weight: 2},
		},
		ImageFragments: []string{"/xe/"},
	},
	{
		Category: "Du lịch",
		Groups: []KeywordGroup{
			{Keywords: []string{"du lịch", "khách sạn", "điểm đến", "tour"}, Weight: 3},
			{Keywords: []string{"vé máy bay", "resort", "du khách", "lữ hành"}, Weight: 2},
		},
		ImageFragments: []string{"/du-lich/"},
	},
	{
		Category: "Nhịp sống trẻ",
		Groups: []KeywordGroup{
			{Keywords: []string{"giới trẻ", "sinh viên", "gen z", "khởi nghiệp"}, Weight: 3},
			{Keywords: []string{"tình nguyện", "đoàn thanh niên", "học bổng"}, Weight: 2},
		},
		ImageFragments: []string{"/nhip-song-tre/"},
	},
	{
		Category: "Văn hóa",
		Groups: []KeywordGroup{
			{Keywords: []string{"văn hóa", "di sản", "lễ hội", "bảo tàng"}, Weight: 3},
			{Keywords: []string{"nghệ thuật", "triển lãm", "sách", "nhà văn"}, Weight: 2},
		},
		ImageFragments: []string{"/van-hoa/"},
	},
	{
		Category: "Giải trí",
		Groups: []KeywordGroup{
			{Keywords: []string{"giải trí", "ca sĩ", "diễn viên", "showbiz", "phim"}, Weight: 3},
			{Keywords: []string{"âm nhạc", "mv", "hoa hậu", "liveshow"}, Weight: 2},
		},
		ImageFragments: []string{"/giai-tri/", "/van-nghe/"},
	},
	{
		Category: "Thể thao",
		Groups: []KeywordGroup{
			{Keywords: []string{"thể thao", "bóng đá", "world cup", "sea games", "v-league"}, Weight: 3},
			{Keywords: []string{"trận đấu", "cầu thủ", "huấn luyện viên", "vô địch", "đội tuyển"}, Weight: 2},
		},
		ImageFragments: []string{"/the-thao/", "/bong-da/"},
	},
	{
		Category: "Giáo dục",
		Groups: []KeywordGroup{
			{Keywords: []string{"giáo dục", "tuyển sinh", "học sinh", "thi tốt nghiệp"}, Weight: 3},
			{Keywords: []string{"đại học", "điểm chuẩn", "giáo viên", "sách giáo khoa"}, Weight: 2},
		},
		ImageFragments: []string{"/giao-duc/"},
	},
	{
		Category: "Sức khỏe",
		Groups: []KeywordGroup{
			{Keywords: []string{"sức khỏe", "bệnh viện", "bác sĩ", "dịch bệnh"}, Weight: 3},
			{Keywords: []string{"vắc xin", "điều trị", "y tế", "thuốc"}, Weight: 2},
		},
		ImageFragments: []string{"/suc-khoe/", "/y-te/"},
	},
}
