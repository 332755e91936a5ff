package profile

import "github.com/sells-group/faskes-equity/internal/model"

var defaultProfiles = []model.ClusterProfile{
	{
		ID:      0,
		Name:    "Wilayah Tertinggal",
		Summary: "Cluster dengan keterbatasan fasilitas dan prioritas tinggi intervensi kebijakan.",
		Description: "Cluster ini ditandai dengan jumlah fasilitas kesehatan " +
			"dan kunjungan layanan yang relatif rendah. " +
			"Wilayah dalam cluster ini berpotensi mengalami keterbatasan akses " +
			"dan memerlukan prioritas intervensi kebijakan.",
		Headline: "Prioritas Intervensi Tinggi",
		Priority: model.PriorityHigh,
		Characteristics: []string{
			"Jumlah fasilitas kesehatan terbatas",
			"Tingkat kunjungan relatif rendah",
			"Akses layanan kesehatan masih kurang memadai",
		},
		Actions: []string{
			"Pembangunan fasilitas kesehatan baru (puskesmas/klinik dasar)",
			"Pemerataan tenaga kesehatan (dokter, perawat, bidan)",
			"Peningkatan anggaran kesehatan daerah",
			"Program layanan kesehatan keliling untuk wilayah terpencil",
		},
	},
	{
		ID:      1,
		Name:    "Wilayah Tertekan",
		Summary: "Cluster dengan fasilitas menengah dan potensi pengembangan.",
		Description: "Cluster ini memiliki tingkat kunjungan layanan yang cukup tinggi, " +
			"namun jumlah dan kapasitas fasilitas kesehatan masih terbatas. " +
			"Kondisi ini mengindikasikan beban layanan yang tidak seimbang.",
		Headline: "Optimalisasi & Penguatan Layanan",
		Priority: model.PriorityMedium,
		Characteristics: []string{
			"Jumlah kunjungan tinggi",
			"Fasilitas kesehatan belum sebanding dengan kebutuhan",
			"Beban layanan cenderung tinggi",
		},
		Actions: []string{
			"Peningkatan kapasitas fasilitas kesehatan yang ada",
			"Penambahan jam layanan dan tenaga medis",
			"Optimalisasi sistem rujukan antar fasilitas",
			"Digitalisasi layanan (pendaftaran, antrian, rekam medis)",
		},
	},
	{
		ID:      2,
		Name:    "Wilayah Relatif Maju",
		Summary: "Cluster dengan fasilitas relatif memadai.",
		Description: "Cluster ini dicirikan oleh ketersediaan fasilitas kesehatan " +
			"dan bobot layanan yang relatif tinggi. " +
			"Wilayah dalam cluster ini memiliki akses dan kapasitas layanan " +
			"yang lebih memadai dibandingkan cluster lainnya.",
		Headline: "Pemeliharaan & Replikasi Praktik Baik",
		Priority: model.PriorityLow,
		Characteristics: []string{
			"Fasilitas kesehatan relatif memadai",
			"Bobot dan kualitas layanan tinggi",
			"Akses layanan kesehatan baik",
		},
		Actions: []string{
			"Pemeliharaan kualitas fasilitas dan layanan",
			"Pengembangan layanan kesehatan spesialistik",
			"Replikasi praktik terbaik ke wilayah cluster lain",
			"Monitoring dan evaluasi berkelanjutan",
		},
	},
}
