package catalog

import "github.com/aitopia-kr/aitopia/internal/domain"

// fallbackServices is served whenever the live datastore is unconfigured or
// unreachable. It is already filtered and ordered and never goes through Apply.
var fallbackServices = []domain.ServiceRecord{
	{
		Key:             "nft-creator",
		Name:            "NFT 자동 생성/판매",
		Description:     "AI가 트렌드를 분석해 NFT를 자동 생성하고 OpenSea에서 판매합니다.",
		CurrentEarnings: 0,
		MaxEarnings:     800,
		Cost:            "월 159,000원",
		CostKrw:         159000,
		Color:           "bg-gradient-to-r from-purple-500 to-pink-500",
		LightColor:      "bg-gradient-to-r from-purple-100 to-pink-100",
		TextColor:       "text-purple-600",
		Requirements: []string{
			"OpenSea 계정 생성",
			"MetaMask 지갑 연결",
			"NFT 컬렉션 컨셉 아이디어",
			"최소 창작 자금 200 USDT",
		},
		Features: []string{
			"AI 기반 NFT 아트 자동 생성",
			"OpenSea 자동 리스팅",
			"트렌드 분석 기반 테마 선택",
			"로열티 수익 자동 수집",
			"월 평균 800 USDT 수익 예상",
		},
		IsNew:    true,
		IsActive: true,
		Category: "new",
		Order:    1,
	},
	{
		Key:             "online-sales",
		Name:            "온라인 판매 자동화",
		Description:     "AI가 상품 리스팅부터 고객 응답까지 자동으로 처리하여 24시간 판매를 대행합니다.",
		CurrentEarnings: 324.50,
		MaxEarnings:     500,
		Cost:            "월 89,000원",
		CostKrw:         89000,
		Color:           "bg-blue-500",
		LightColor:      "bg-blue-100",
		TextColor:       "text-blue-600",
		Requirements: []string{
			"판매할 상품 목록 (최소 10개)",
			"온라인 쇼핑몰 계정 (쿠팡, 11번가, 지마켓 등)",
			"상품 이미지 및 설명 자료",
			"배송업체 정보",
		},
		Features: []string{
			"24시간 자동 상품 등록",
			"AI 기반 고객 문의 응답",
			"실시간 재고 관리",
			"가격 최적화 자동 조정",
			"월 평균 500 USDT 수익 예상",
		},
		IsActive: true,
		Category: "standard",
		Order:    2,
	},
	{
		Key:             "app-dev",
		Name:            "앱 개발 자동화",
		Description:     "AI가 고객 요구사항을 분석하여 앱을 자동 개발하고 배포까지 처리합니다.",
		CurrentEarnings: 456.20,
		MaxEarnings:     700,
		Cost:            "월 129,000원",
		CostKrw:         129000,
		Color:           "bg-green-500",
		LightColor:      "bg-green-100",
		TextColor:       "text-green-600",
		Requirements: []string{
			"개발 플랫폼 계정 (App Store, Google Play)",
			"사업자등록증 또는 개인사업자 신고",
			"앱 카테고리 선택 (게임, 유틸리티, 교육 등)",
			"기본 UI/UX 컨셉 아이디어",
		},
		Features: []string{
			"AI 기반 앱 자동 코딩",
			"실시간 버그 자동 수정",
			"앱스토어 자동 배포",
			"사용자 피드백 자동 분석",
			"월 평균 700 USDT 수익 예상",
		},
		IsActive: true,
		Category: "standard",
		Order:    3,
	},
	{
		Key:             "memecoin",
		Name:            "밈코인 트레이딩",
		Description:     "AI가 소셜미디어 트렌드를 분석하여 밈코인 투자를 자동 실행합니다.",
		CurrentEarnings: 289.15,
		MaxEarnings:     400,
		Cost:            "월 69,000원",
		CostKrw:         69000,
		Color:           "bg-purple-500",
		LightColor:      "bg-purple-100",
		TextColor:       "text-purple-600",
		Requirements: []string{
			"암호화폐 거래소 계정 (업비트, 바이낸스 등)",
			"최소 투자금 500 USDT",
			"위험 투자 동의서",
			"KYC 인증 완료",
		},
		Features: []string{
			"AI 트렌드 실시간 분석",
			"자동 매수/매도 실행",
			"리스크 관리 자동화",
			"SNS 감정 분석 기반 예측",
			"월 평균 400 USDT 수익 예상",
		},
		IsActive: true,
		Category: "standard",
		Order:    4,
	},
	{
		Key:             "advertising",
		Name:            "CPC/CPM 광고",
		Description:     "AI가 최적의 광고 콘텐츠를 생성하고 타겟팅하여 광고 수익을 창출합니다.",
		CurrentEarnings: 112.30,
		MaxEarnings:     300,
		Cost:            "월 49,000원",
		CostKrw:         49000,
		Color:           "bg-orange-500",
		LightColor:      "bg-orange-100",
		TextColor:       "text-orange-600",
		Requirements: []string{
			"구글 애드센스 계정",
			"웹사이트 또는 블로그 (최소 10개 게시물)",
			"콘텐츠 카테고리 선택",
			"타겟 오디언스 정보",
		},
		Features: []string{
			"AI 콘텐츠 자동 생성",
			"최적 광고 배치 분석",
			"실시간 CTR 최적화",
			"A/B 테스트 자동 실행",
			"월 평균 300 USDT 수익 예상",
		},
		IsActive: true,
		Category: "standard",
		Order:    5,
	},
	{
		Key:             "music",
		Name:            "음악 생성/등록",
		Description:     "AI가 트렌드에 맞는 음악을 생성하고 스트리밍 플랫폼에 자동 등록합니다.",
		CurrentEarnings: 65.70,
		MaxEarnings:     200,
		Cost:            "월 39,000원",
		CostKrw:         39000,
		Color:           "bg-pink-500",
		LightColor:      "bg-pink-100",
		TextColor:       "text-pink-600",
		Requirements: []string{
			"음원 유통사 계정 (벅스, 멜론, 스포티파이)",
			"작곡가 또는 아티스트 등록",
			"음악 장르 선택 (팝, 힙합, 일렉트로닉 등)",
			"앨범 커버 이미지",
		},
		Features: []string{
			"AI 작곡 및 편곡",
			"자동 음원 등록",
			"스트리밍 수익 최적화",
			"트렌드 기반 장르 선택",
			"월 평균 200 USDT 수익 예상",
		},
		IsActive: true,
		Category: "standard",
		Order:    6,
	},
}

// Fallback returns a fresh copy of the compiled-in catalog.
func Fallback() []domain.ServiceRecord {
	out := make([]domain.ServiceRecord, len(fallbackServices))
	for i, s := range fallbackServices {
		out[i] = s.Clone()
	}
	return out
}
