package scoring

// 非庄家荣和点数表 han -> fu -> 点数
var nonDealerRon = map[int]map[int]int{
	1: {30: 1000, 40: 1300, 50: 1600, 60: 2000, 70: 2300, 80: 2600, 90: 2900, 100: 3200, 110: 3600},
	2: {20: 1300, 25: 1600, 30: 2000, 40: 2600, 50: 3200, 60: 3900, 70: 4500, 80: 5200, 90: 5800, 100: 6400, 110: 7100},
	3: {20: 2600, 25: 3200, 30: 3900, 40: 5200, 50: 6400, 60: 7700},
	4: {20: 5200, 25: 6400, 30: 7700},
}

// 庄家荣和点数表
var dealerRon = map[int]map[int]int{
	1: {30: 1500, 40: 2000, 50: 2400, 60: 2900, 70: 3400, 80: 3900, 90: 4400, 100: 4800, 110: 5300},
	2: {20: 2000, 25: 2400, 30: 2900, 40: 3900, 50: 4800, 60: 5800, 70: 6800, 80: 7700, 90: 8700, 100: 9600, 110: 10600},
	3: {20: 3900, 25: 4800, 30: 5800, 40: 7700, 50: 9600, 60: 11600},
	4: {20: 7700, 25: 9600, 30: 11600},
}

// tsumoSplit 闲家自摸时庄家与闲家各自支付的点数
type tsumoSplit struct {
	dealer    int
	nonDealer int
}

// 闲家自摸点数表
var nonDealerTsumo = map[int]map[int]tsumoSplit{
	1: {
		30: {500, 300}, 40: {700, 400}, 50: {800, 400}, 60: {1000, 500}, 70: {1200, 600},
		80: {1300, 700}, 90: {1500, 800}, 100: {1600, 800}, 110: {1800, 900},
	},
	2: {
		20: {700, 400}, 25: {800, 400}, 30: {1000, 500}, 40: {1300, 700}, 50: {1600, 800},
		60: {2000, 1000}, 70: {2300, 1200}, 80: {2600, 1300}, 90: {2900, 1500}, 100: {3200, 1600},
		110: {3600, 1800},
	},
	3: {20: {1300, 700}, 25: {1600, 800}, 30: {2000, 1000}, 40: {2600, 1300}, 50: {3200, 1600}, 60: {3900, 2000}},
	4: {20: {2600, 1300}, 25: {3200, 1600}, 30: {3900, 2000}},
}

// 庄家自摸点数表（每家支付）
var dealerTsumo = map[int]map[int]int{
	1: {30: 500, 40: 700, 50: 800, 60: 1000, 70: 1200, 80: 1300, 90: 1500, 100: 1600, 110: 1800},
	2: {20: 700, 25: 800, 30: 1000, 40: 1300, 50: 1600, 60: 2000, 70: 2300, 80: 2600, 90: 2900, 100: 3200, 110: 3600},
	3: {20: 1300, 25: 1600, 30: 2000, 40: 2600, 50: 3200, 60: 3900},
	4: {20: 2600, 25: 3200, 30: 3900},
}
